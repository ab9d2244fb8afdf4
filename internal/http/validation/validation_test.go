package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Dana Levi", true},
		{"דנה לוי", true},
		{"O'Brien-Cohen", true},
		{"A", false},
		{"Dana1", false},
		{"", false},
		{"Dana@Levi", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidName(tt.in))
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0501234567", true},
		{"0721234567", true},
		{"123", false},
		{"0401234567", false},
		{"05012345678", false},
		{"+972501234567", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.in))
		})
	}
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Abcdefg1"))
	assert.False(t, StrongPassword("abcdefg1"), "no uppercase")
	assert.False(t, StrongPassword("Abcdefgh"), "no digit")
	assert.False(t, StrongPassword("Abc1"), "too short")
}

func TestParseLang(t *testing.T) {
	assert.Equal(t, En, ParseLang("en-US,en;q=0.9"))
	assert.Equal(t, He, ParseLang("he-IL"))
	assert.Equal(t, He, ParseLang(""))
	assert.Equal(t, He, ParseLang("fr"))
}

type sample struct {
	Name  string `json:"full_name" validate:"required,person_name"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,il_phone"`
	Pass  string `form:"password" validate:"omitempty,strong_password"`
}

func TestStruct_OrderAndKeys(t *testing.T) {
	errs := Struct(&sample{Name: "x", Email: "bad", Phone: "123", Pass: "weak"}, En)
	require.Len(t, errs, 4)
	assert.Equal(t, "full_name", errs[0].Field)
	assert.Equal(t, "email", errs[1].Field)
	assert.Equal(t, "phone", errs[2].Field)
	assert.Equal(t, "password", errs[3].Field)
	assert.Equal(t, "Please enter a valid email address.", errs[1].Message)
}

func TestStruct_Valid(t *testing.T) {
	assert.Empty(t, Struct(&sample{Name: "Dana", Email: "d@example.com", Phone: "0501234567"}, He))
}

func TestFromBindError_NonValidationError(t *testing.T) {
	fe := FromBindError(assert.AnError, &sample{}, He)
	assert.Equal(t, "הנתונים שנשלחו אינם תקינים.", fe["_"])
}
