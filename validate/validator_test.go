package validate_test

import (
	"context"
	"testing"

	"github.com/hl7bridge/hl7v2/parse"
	"github.com/hl7bridge/hl7v2/validate"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	v := validate.New()
	require.NotNil(t, v)

	v2 := validate.New(
		validate.At("MSH.9").Required().Build(),
		validate.At("MSH.10").Required().Build(),
	)
	require.NotNil(t, v2)
}

func TestNewWithRuleSet(t *testing.T) {
	v := validate.NewWithRuleSet(validate.MSHRules())
	require.NotNil(t, v)
}

func TestValidator_Check(t *testing.T) {
	root, err := parse.New().ParseMessage(context.Background(), []byte(sampleADT))
	require.NoError(t, err)

	v := validate.NewWithRuleSet(validate.ADTRules())
	result := v.Check(root)
	require.True(t, result.Valid(), "expected no errors, got %v", result.Errors())
}

func TestValidator_Check_NilRoot(t *testing.T) {
	v := validate.New()
	result := v.Check(nil)
	require.False(t, result.Valid())
}

func TestValidator_Check_MissingRequiredField(t *testing.T) {
	// PV1.2 (patient class) missing.
	const incomplete = "MSH|^~\\&|APP|FAC|REC|RECFAC|20231215||ADT^A01|CTRL|P|2.3\r" +
		"EVN|A01|20231215\rPID|1||123^^^HOSP^MR||DOE^JOHN\rPV1|1\r"

	root, err := parse.New().ParseMessage(context.Background(), []byte(incomplete))
	require.NoError(t, err)

	v := validate.NewWithRuleSet(validate.PV1Rules())
	result := v.Check(root)
	require.False(t, result.Valid())
}

// TestNode_Validate_StructurallySound exercises the structural checks registered as
// tree.Node.Validate's backing implementation by this package.
func TestNode_Validate_StructurallySound(t *testing.T) {
	root, err := parse.New().ParseMessage(context.Background(), []byte(sampleADT))
	require.NoError(t, err)
	require.Empty(t, root.Validate())
}
