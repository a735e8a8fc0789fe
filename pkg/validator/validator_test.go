package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingForm struct {
	Name  string  `json:"patient_name" binding:"required,max=10"`
	Email string  `json:"email" binding:"required,email"`
	Phone string  `json:"phone" binding:"required,phone"`
	Date  string  `json:"appointment_date" binding:"required,isodate"`
	Time  string  `json:"appointment_time" binding:"required,slot"`
	Notes *string `json:"notes" binding:"omitempty,max=5"`
	Count int     `json:"count"`
}

func setup(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, Setup())
	require.NoError(t, RegisterChoices("slot", "09:00", "10:00"))
}

func bind(t *testing.T, body string) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var form bookingForm
	return c.ShouldBindJSON(&form)
}

func TestValidFormPasses(t *testing.T) {
	setup(t)
	err := bind(t, `{"patient_name":"Jane","email":"jane@example.com","phone":"+14155550100","appointment_date":"2025-10-20","appointment_time":"10:00"}`)
	assert.NoError(t, err)
}

func TestTranslateFieldErrors(t *testing.T) {
	setup(t)
	err := bind(t, `{"patient_name":"Jane Alexandra Doe","email":"nope","phone":"12","appointment_date":"20-10-2025","appointment_time":"13:00","notes":"too long"}`)
	require.Error(t, err)

	fields := Translate(err)
	assert.Equal(t, []string{"Ensure this field has no more than 10 characters."}, fields["patient_name"])
	assert.Equal(t, []string{"Enter a valid email address."}, fields["email"])
	assert.Equal(t, []string{"Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."}, fields["phone"])
	assert.Equal(t, []string{"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}, fields["appointment_date"])
	assert.Equal(t, []string{`"13:00" is not a valid choice.`}, fields["appointment_time"])
	assert.Equal(t, []string{"Ensure this field has no more than 5 characters."}, fields["notes"])
}

func TestTranslateRequired(t *testing.T) {
	setup(t)
	var form bookingForm
	err := ValidateStruct(&form)
	require.Error(t, err)

	fields := Translate(err)
	assert.Equal(t, []string{"This field is required."}, fields["email"])
	assert.Equal(t, []string{"This field is required."}, fields["appointment_time"])
}

func TestTranslateTypeErrors(t *testing.T) {
	setup(t)
	err := bind(t, `{"count":"many"}`)
	require.Error(t, err)

	assert.Equal(t, []string{"A valid integer is required."}, Translate(err)["count"])
}

func TestIsEmptyBody(t *testing.T) {
	setup(t)
	err := bind(t, ``)
	assert.True(t, IsEmptyBody(err))
}
