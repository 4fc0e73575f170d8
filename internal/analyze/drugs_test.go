package analyze

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDrugsNormalizesAndDedupes(t *testing.T) {
	drugs, err := ParseDrugs(" codeine, Warfarin ,CODEINE,, st-johns-wort ")
	require.NoError(t, err)
	assert.Equal(t, []string{"CODEINE", "WARFARIN", "ST-JOHNS-WORT"}, drugs)
}

func TestParseDrugsRejectsWholeInputOnBadToken(t *testing.T) {
	_, err := ParseDrugs("WARFARIN, aspirin!, CODEINE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASPIRIN!")
}

func TestParseDrugsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "  ", ",,,"} {
		_, err := ParseDrugs(input)
		assert.True(t, errors.Is(err, ErrNoDrugs), "input %q should yield ErrNoDrugs, got %v", input, err)
	}
}

func TestParseDrugsAllowsSpacesAndHyphens(t *testing.T) {
	drugs, err := ParseDrugs("acetylsalicylic acid, co-trimoxazole")
	require.NoError(t, err)
	assert.Equal(t, []string{"ACETYLSALICYLIC ACID", "CO-TRIMOXAZOLE"}, drugs)
}
