package testdata_test

import (
	"context"
	"testing"

	"github.com/hl7bridge/hl7v2/parse"
	"github.com/hl7bridge/hl7v2/testdata"
	// Registers the structural checks behind tree.Node.Validate.
	_ "github.com/hl7bridge/hl7v2/validate"
)

func TestLoadADTA01(t *testing.T) {
	data, err := testdata.LoadADTA01()
	if err != nil {
		t.Fatalf("LoadADTA01() error = %v", err)
	}
	root, err := parse.New().ParseMessage(context.Background(), data)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if root.Name() != "ADT_A01" {
		t.Errorf("Name() = %q, want %q", root.Name(), "ADT_A01")
	}
	if errs := root.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestLoadADTA08(t *testing.T) {
	data, err := testdata.LoadADTA08()
	if err != nil {
		t.Fatalf("LoadADTA08() error = %v", err)
	}
	root, err := parse.New().ParseMessage(context.Background(), data)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if root.Name() != "ADT_A08" {
		t.Errorf("Name() = %q, want %q", root.Name(), "ADT_A08")
	}
	if errs := root.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestLoadORUR01(t *testing.T) {
	data, err := testdata.LoadORUR01()
	if err != nil {
		t.Fatalf("LoadORUR01() error = %v", err)
	}
	root, err := parse.New().ParseMessage(context.Background(), data)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}

	result, err := root.Get("ORU_R01_PATIENT_RESULT")
	if err != nil || result == nil {
		t.Fatalf("Get(ORU_R01_PATIENT_RESULT) = (%v, %v)", result, err)
	}
	orders, err := result.GetAll("ORU_R01_ORDER_OBSERVATION")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("len(orders) = %d, want 2", len(orders))
	}
}

func TestLoadComplex(t *testing.T) {
	data, err := testdata.LoadComplex()
	if err != nil {
		t.Fatalf("LoadComplex() error = %v", err)
	}
	root, err := parse.New().ParseMessage(context.Background(), data)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}

	pid, err := root.GetPath("ORU_R01_PATIENT_RESULT.PID")
	if err != nil || pid == nil {
		t.Fatalf("GetPath(ORU_R01_PATIENT_RESULT.PID) = (%v, %v)", pid, err)
	}
	phones, err := pid.GetAll("PID_13")
	if err != nil {
		t.Fatalf("GetAll(PID_13) error = %v", err)
	}
	if len(phones) != 2 {
		t.Errorf("len(phones) = %d, want 2 (repetition-separated)", len(phones))
	}

	obx, err := root.GetPath("ORU_R01_PATIENT_RESULT.ORU_R01_ORDER_OBSERVATION.OBX")
	if err != nil {
		t.Fatalf("GetPath(OBX) error = %v", err)
	}
	if obx == nil {
		t.Fatal("GetPath(OBX) = nil")
	}
	want := "Sample contains 50|50 glucose\nsee report"
	val, err := obx.GetPath("5")
	if err != nil {
		t.Fatalf("GetPath(5) error = %v", err)
	}
	if val.Value() != want {
		t.Errorf("OBX-5 = %q, want %q", val.Value(), want)
	}
}

func TestLoadMissingMSH(t *testing.T) {
	data, err := testdata.LoadMissingMSH()
	if err != nil {
		t.Fatalf("LoadMissingMSH() error = %v", err)
	}
	if _, err := parse.New().ParseMessage(context.Background(), data); err == nil {
		t.Error("ParseMessage() error = nil, want an error for a message with no MSH")
	}
}

func TestLoadEmpty(t *testing.T) {
	data, err := testdata.LoadEmpty()
	if err != nil {
		t.Fatalf("LoadEmpty() error = %v", err)
	}
	if _, err := parse.New().ParseMessage(context.Background(), data); err == nil {
		t.Error("ParseMessage() error = nil, want an error for empty input")
	}
}

func TestLoadInvalidDelimiters(t *testing.T) {
	data, err := testdata.LoadInvalidDelimiters()
	if err != nil {
		t.Fatalf("LoadInvalidDelimiters() error = %v", err)
	}
	if _, err := parse.New().ParseMessage(context.Background(), data); err == nil {
		t.Error("ParseMessage() error = nil, want an error for malformed MSH-2")
	}
}

func TestLoadTruncated(t *testing.T) {
	data, err := testdata.LoadTruncated()
	if err != nil {
		t.Fatalf("LoadTruncated() error = %v", err)
	}
	root, err := parse.New().ParseMessage(context.Background(), data)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if errs := root.Validate(); len(errs) == 0 {
		t.Error("Validate() = no errors, want cardinality errors for missing PID/PV1")
	}
}

func TestListValidFiles(t *testing.T) {
	files, err := testdata.ListValidFiles()
	if err != nil {
		t.Fatalf("ListValidFiles() error = %v", err)
	}
	if len(files) < 4 {
		t.Errorf("len(files) = %d, want at least 4", len(files))
	}
}

func TestListMalformedFiles(t *testing.T) {
	files, err := testdata.ListMalformedFiles()
	if err != nil {
		t.Fatalf("ListMalformedFiles() error = %v", err)
	}
	if len(files) < 4 {
		t.Errorf("len(files) = %d, want at least 4", len(files))
	}
}
