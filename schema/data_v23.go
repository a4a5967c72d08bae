package schema

import "regexp"

// This file is the one worked schema instance this module ships: a
// hand-authored HL7 v2.3 table set covering the structures, segments
// and data types exercised by this repository's fixtures and tests.
// Per spec.md §1/§4.B the per-version schema *content* is data the
// core consumes, not logic the core defines — a real deployment would
// generate these tables from the HL7 conformance tables for each
// supported version (spec.md lists seven) and register them the same
// way: one registerVersion call per version, built from the segDef/
// fieldDef/structLiteral/compositeDef/baseDef literals below.

// fieldDef is the compact literal form for one segment field;
// expandSegment turns these into ChildDef + registry.fields entries.
type fieldDef struct {
	seq      int
	longName string
	dataType string
	min, max int
}

// segDef is the compact literal form for one segment's field list.
type segDef struct {
	name   string
	fields []fieldDef
}

// structChildDef is one entry of a Message or Group's ordered child
// list (a structLiteral's children). A child is either a segment name
// (kind Segment) or the name of another structLiteral whose kind is
// Group (kind Group); no naming convention is needed to tell them apart.
type structChildDef struct {
	name     string
	min, max int
}

type structLiteral struct {
	name     string
	kind     Kind
	children []structChildDef
}

// compositeDef is the compact literal form for a composite data type:
// an ordered list of component data type codes.
type compositeDef struct {
	code       string
	components []string
}

// baseDef is the compact literal form for a base (scalar) data type.
type baseDef struct {
	code      string
	maxLength int
	regex     string // "" means unconstrained
}

func init() {
	v23 := &registry{
		version:    "2.3",
		structures: map[string]*structureDef{},
		fields:     map[string]*ChildDef{},
		dataTypes:  map[string]*dataTypeDef{},
		aliases:    map[string]string{},
	}

	// --- base data types -------------------------------------------------
	bases := []baseDef{
		{"ST", 200, ""},
		{"TX", 65536, ""},
		{"FT", 65536, ""},
		{"ID", 20, ""},
		{"IS", 20, ""},
		{"SI", 4, `^[0-9]+$`},
		{"NM", 16, `^[+-]?[0-9]+(\.[0-9]+)?$`},
		{"DTM", 24, `^[0-9]{4,14}(\.[0-9]+)?([+-][0-9]{4})?$`},
	}
	for _, b := range bases {
		dt := &dataTypeDef{code: b.code, isBase: true, constraints: BaseConstraints{MaxLength: b.maxLength}}
		if b.regex != "" {
			dt.constraints.Regex = regexp.MustCompile(b.regex)
		}
		v23.dataTypes[b.code] = dt
	}
	// TS (time stamp) is modeled as a two-component composite whose
	// first component is a DTM, matching the teacher's treatment of
	// MSH-7 as a DTM string while giving TS its own schema identity for
	// component access (TS_1 is the timestamp, TS_2 the degree of precision).
	// MSG is the message type carried in MSH-9: message type, trigger
	// event and message structure.
	composites := []compositeDef{
		{"TS", []string{"DTM", "ST"}},
		{"MSG", []string{"ID", "ID", "ID"}},
		{"HD", []string{"IS", "ST", "ID"}},
		{"EI", []string{"ST", "IS", "ST", "ID"}},
		{"CE", []string{"ST", "ST", "IS", "ST", "ST", "IS"}},
		{"CWE", []string{"ST", "ST", "IS", "ST", "ST", "IS"}},
		{"CQ", []string{"NM", "CE"}},
		{"PL", []string{"IS", "IS", "IS", "IS", "IS", "IS"}},
		{"XPN", []string{"ST", "ST", "ST", "ST", "ST", "IS", "ID"}},
		{"XAD", []string{"ST", "ST", "ST", "ST", "ST", "ID", "IS"}},
		{"XTN", []string{"ST", "ID", "ID", "ST", "NM", "NM", "NM"}},
		{"XCN", []string{"ST", "ST", "ST", "ST", "ST", "ST", "IS"}},
		{"CX", []string{"ST", "ST", "ID", "HD", "IS"}},
	}
	for _, c := range composites {
		v23.dataTypes[c.code] = &dataTypeDef{code: c.code, isBase: false, components: c.components}
	}

	// --- segments ----------------------------------------------------
	segments := []segDef{
		{"MSH", []fieldDef{
			{1, "field_separator", "ST", 1, 1},
			{2, "encoding_characters", "ST", 1, 1},
			{3, "sending_application", "HD", 0, 1},
			{4, "sending_facility", "HD", 0, 1},
			{5, "receiving_application", "HD", 0, 1},
			{6, "receiving_facility", "HD", 0, 1},
			{7, "date_time_of_message", "TS", 0, 1},
			{8, "security", "ST", 0, 1},
			{9, "message_type", "MSG", 1, 1},
			{10, "message_control_id", "ST", 1, 1},
			{11, "processing_id", "ST", 1, 1},
			{12, "version_id", "ST", 1, 1},
			{13, "sequence_number", "NM", 0, 1},
			{14, "continuation_pointer", "ST", 0, 1},
			{15, "accept_acknowledgment_type", "ID", 0, 1},
			{16, "application_acknowledgment_type", "ID", 0, 1},
			{17, "country_code", "ID", 0, 1},
			{18, "character_set", "ID", 0, -1},
			{19, "principal_language_of_message", "CE", 0, 1},
		}},
		{"EVN", []fieldDef{
			{1, "event_type_code", "ID", 0, 1},
			{2, "recorded_date_time", "TS", 1, 1},
			{3, "date_time_planned_event", "TS", 0, 1},
			{4, "event_reason_code", "IS", 0, 1},
		}},
		{"PID", []fieldDef{
			{1, "set_id", "SI", 0, 1},
			{2, "patient_id", "CX", 0, 1},
			{3, "patient_id_list", "CX", 1, -1},
			{4, "alternate_patient_id", "CX", 0, -1},
			{5, "patient_name", "XPN", 1, -1},
			{6, "mother_maiden_name", "XPN", 0, -1},
			{7, "date_of_birth", "TS", 0, 1},
			{8, "sex", "IS", 0, 1},
			{9, "patient_alias", "XPN", 0, -1},
			{10, "race", "CE", 0, -1},
			{11, "patient_address", "XAD", 0, -1},
			{12, "county_code", "IS", 0, 1},
			{13, "phone_number_home", "XTN", 0, -1},
			{14, "phone_number_business", "XTN", 0, -1},
			{15, "primary_language", "CE", 0, 1},
			{16, "marital_status", "CE", 0, 1},
			{17, "religion", "CE", 0, 1},
			{18, "patient_account_number", "CX", 0, 1},
			{19, "ssn_number", "ST", 0, 1},
			{20, "drivers_license_number", "ST", 0, 1},
			{21, "mothers_identifier", "CX", 0, -1},
			{22, "ethnic_group", "CE", 0, -1},
			{23, "birth_place", "ST", 0, 1},
			{24, "multiple_birth_indicator", "ID", 0, 1},
			{25, "birth_order", "NM", 0, 1},
			{26, "citizenship", "CE", 0, -1},
			{27, "veterans_military_status", "CE", 0, 1},
			{28, "nationality", "CE", 0, 1},
			{29, "patient_death_date_time", "TS", 0, 1},
			{30, "patient_death_indicator", "ID", 0, 1},
		}},
		{"PV1", []fieldDef{
			{1, "set_id", "SI", 0, 1},
			{2, "patient_class", "IS", 1, 1},
			{3, "assigned_patient_location", "PL", 0, 1},
			{4, "admission_type", "IS", 0, 1},
			{5, "preadmit_number", "CX", 0, 1},
			{6, "prior_patient_location", "PL", 0, 1},
			{7, "attending_doctor", "XCN", 0, -1},
			{8, "referring_doctor", "XCN", 0, -1},
			{9, "consulting_doctor", "XCN", 0, -1},
			{10, "hospital_service", "IS", 0, 1},
			{11, "temporary_location", "PL", 0, 1},
			{12, "preadmit_test_indicator", "IS", 0, 1},
			{13, "readmission_indicator", "IS", 0, 1},
			{14, "admit_source", "IS", 0, 1},
			{15, "ambulatory_status", "IS", 0, -1},
			{16, "vip_indicator", "IS", 0, 1},
			{17, "admitting_doctor", "XCN", 0, -1},
			{18, "patient_type", "IS", 0, 1},
			{19, "visit_number", "CX", 0, 1},
		}},
		{"NK1", []fieldDef{
			{1, "set_id", "SI", 0, 1},
			{2, "name", "XPN", 1, -1},
			{3, "relationship", "CE", 0, 1},
			{4, "address", "XAD", 0, -1},
			{5, "phone_number", "XTN", 0, -1},
			{6, "business_phone_number", "XTN", 0, -1},
			{7, "contact_role", "CE", 0, 1},
		}},
		{"ORC", []fieldDef{
			{1, "order_control", "ID", 1, 1},
			{2, "placer_order_number", "EI", 0, 1},
			{3, "filler_order_number", "EI", 0, 1},
			{4, "placer_group_number", "EI", 0, 1},
			{5, "order_status", "ID", 0, 1},
			{6, "response_flag", "ID", 0, 1},
			{7, "quantity_timing", "ST", 0, -1},
			{8, "parent", "ST", 0, 1},
			{9, "date_time_of_transaction", "TS", 0, 1},
			{10, "entered_by", "XCN", 0, -1},
			{11, "verified_by", "XCN", 0, -1},
			{12, "ordering_provider", "XCN", 0, -1},
		}},
		{"OBR", []fieldDef{
			{1, "set_id", "SI", 0, 1},
			{2, "placer_order_number", "EI", 0, 1},
			{3, "filler_order_number", "EI", 0, 1},
			{4, "universal_service_id", "CE", 1, 1},
			{5, "priority", "ID", 0, 1},
			{6, "requested_date_time", "TS", 0, 1},
			{7, "observation_date_time", "TS", 0, 1},
			{8, "observation_end_date_time", "TS", 0, 1},
			{9, "collection_volume", "CQ", 0, 1},
			{10, "collector_identifier", "XCN", 0, -1},
			{11, "specimen_action_code", "ID", 0, 1},
			{12, "danger_code", "CE", 0, 1},
			{13, "relevant_clinical_info", "ST", 0, 1},
			{14, "specimen_received_date_time", "TS", 0, 1},
			{15, "specimen_source", "ST", 0, 1},
			{16, "ordering_provider", "XCN", 0, -1},
			{17, "order_callback_phone_number", "XTN", 0, -1},
			{18, "placer_field_1", "ST", 0, 1},
			{19, "placer_field_2", "ST", 0, 1},
			{20, "filler_field_1", "ST", 0, 1},
			{21, "filler_field_2", "ST", 0, 1},
			{22, "results_rpt_status_chng_date_time", "TS", 0, 1},
			{23, "charge_to_practice", "ST", 0, 1},
			{24, "diagnostic_serv_sect_id", "ID", 0, 1},
			{25, "result_status", "ID", 0, 1},
		}},
		{"OBX", []fieldDef{
			{1, "set_id", "SI", 0, 1},
			{2, "value_type", "ID", 0, 1},
			{3, "observation_identifier", "CE", 1, 1},
			{4, "observation_sub_id", "ST", 0, 1},
			{5, "observation_value", "ST", 0, -1},
			{6, "units", "CE", 0, 1},
			{7, "references_range", "ST", 0, 1},
			{8, "abnormal_flags", "IS", 0, -1},
			{9, "probability", "NM", 0, 1},
			{10, "nature_of_abnormal_test", "ID", 0, -1},
			{11, "observation_result_status", "ID", 1, 1},
			{12, "effective_date_of_reference_range", "TS", 0, 1},
			{13, "user_defined_access_checks", "ST", 0, 1},
			{14, "date_time_of_the_observation", "TS", 0, 1},
		}},
		{"AL1", []fieldDef{
			{1, "set_id", "SI", 0, 1},
			{2, "allergen_type_code", "CE", 0, 1},
			{3, "allergen_code_mnemonic_description", "CE", 1, 1},
			{4, "allergy_severity_code", "CE", 0, 1},
			{5, "allergy_reaction_code", "ST", 0, -1},
			{6, "identification_date", "DTM", 0, 1},
		}},
	}
	for _, s := range segments {
		expandSegment(v23, s)
	}

	// --- message structures and groups --------------------------------
	structs := []structLiteral{
		{"ADT_A01", Message, []structChildDef{
			{"MSH", 1, 1}, {"EVN", 1, 1}, {"PID", 1, 1}, {"PV1", 1, 1},
			{"NK1", 0, -1}, {"AL1", 0, -1},
		}},
		{"ADT_A08", Message, []structChildDef{
			{"MSH", 1, 1}, {"EVN", 1, 1}, {"PID", 1, 1}, {"PV1", 1, 1},
			{"NK1", 0, -1}, {"AL1", 0, -1},
		}},
		{"ORU_R01", Message, []structChildDef{
			{"MSH", 1, 1}, {"ORU_R01_PATIENT_RESULT", 1, -1},
		}},
		{"ORU_R01_PATIENT_RESULT", Group, []structChildDef{
			{"PID", 1, 1}, {"PV1", 0, 1}, {"ORU_R01_ORDER_OBSERVATION", 1, -1},
		}},
		{"ORU_R01_ORDER_OBSERVATION", Group, []structChildDef{
			{"OBR", 1, 1}, {"OBX", 0, -1},
		}},
	}
	groupNames := map[string]bool{}
	for _, s := range structs {
		if s.kind == Group {
			groupNames[s.name] = true
		}
	}
	for _, s := range structs {
		children := make([]ChildDef, len(s.children))
		for i, c := range s.children {
			kind := Segment
			if groupNames[c.name] {
				kind = Group
			}
			children[i] = ChildDef{
				Name:        c.name,
				Kind:        kind,
				Cardinality: Cardinality{Min: c.min, Max: c.max},
			}
		}
		v23.structures[s.name] = &structureDef{name: s.name, kind: s.kind, children: children}
	}

	registerVersion(v23)
}

// expandSegment registers one segment's structureDef (its field list,
// for ChildrenOf("SEGNAME")) plus one registry.fields entry per field
// (for LookupStructure/DataTypeOf("SEGNAME_n")) and the field-scoped
// component aliases (e.g. "PID_5_1" -> "XPN_1") for every composite field.
func expandSegment(r *registry, s segDef) {
	children := make([]ChildDef, len(s.fields))
	for i, f := range s.fields {
		name := segFieldName(s.name, f.seq)
		cd := ChildDef{
			Name:        name,
			LongName:    f.longName,
			Kind:        Field,
			DataType:    f.dataType,
			Cardinality: Cardinality{Min: f.min, Max: f.max},
		}
		children[i] = cd
		fcopy := cd
		r.fields[name] = &fcopy

		if dt, ok := r.dataTypes[f.dataType]; ok && !dt.isBase {
			for n := range dt.components {
				alias := segFieldName(name, n+1)
				canonical := segFieldName(f.dataType, n+1)
				r.aliases[alias] = canonical
			}
		}
	}
	r.structures[s.name] = &structureDef{name: s.name, kind: Segment, children: children}
}

func segFieldName(prefix string, n int) string {
	return prefix + "_" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
