package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_UserIDValidation(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		userID  string
		wantErr bool
	}{
		{"valid id", "1234567890", false},
		{"one char", "a", false},
		{"exactly max length", strings.Repeat("a", MaxUserIDLength), false},
		{"over max length", strings.Repeat("a", MaxUserIDLength+1), true},
		{"empty", "", true},
		{"with newline", "user\nid", true},
		{"with null byte", "user\x00id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(RollRequest{UserID: tt.userID})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidator_BatchCount(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"one", 1, false},
		{"max", MaxBatchCount, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"over max", MaxBatchCount + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(RollBatchRequest{UserID: "u1", Count: tt.count})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_Rarity(t *testing.T) {
	type rarityStruct struct {
		Rarity string `validate:"rarity"`
	}
	v := GetValidator()

	assert.NoError(t, v.ValidateStruct(rarityStruct{Rarity: ""}))
	assert.NoError(t, v.ValidateStruct(rarityStruct{Rarity: "legendary"}))
	assert.NoError(t, v.ValidateStruct(rarityStruct{Rarity: "???"}))
	assert.Error(t, v.ValidateStruct(rarityStruct{Rarity: "SUPERB"}))
}

func TestFormatValidationError(t *testing.T) {
	v := GetValidator()

	err := v.ValidateStruct(RollBatchRequest{UserID: "", Count: 0})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "This field is required", fields["userid"])
	assert.Equal(t, "Must be at least 1", fields["count"])

	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("x")))
}
