package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func TestPatientFlow(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Patients)
	ctx := context.Background()

	// Create patient
	dob := "1990-05-01"
	patient, err := svc.CreatePatient(ctx, model.CreatePatientRequest{
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "+14155550100",
		DateOfBirth: &dob,
	})
	require.NoError(t, err)
	assert.Equal(t, "1990-05-01", patient.DateOfBirth.String())

	// Look up by email
	found, err := svc.GetPatientByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, patient.ID, found.ID)

	// Partial update
	group := "O+"
	updated, err := svc.UpdatePatient(ctx, patient.ID, model.UpdatePatientRequest{BloodGroup: &group})
	require.NoError(t, err)
	assert.Equal(t, "O+", updated.BloodGroup)
	assert.Equal(t, "Jane Doe", updated.FullName)

	// Delete
	require.NoError(t, svc.DeletePatient(ctx, patient.ID))
	_, err = svc.GetPatient(ctx, patient.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestGetPatientByEmailErrors(t *testing.T) {
	svc := NewService(memory.NewStore().Patients)
	ctx := context.Background()

	_, err := svc.GetPatientByEmail(ctx, "")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, "Email parameter is required", appErr.Message)

	_, err = svc.GetPatientByEmail(ctx, "nobody@example.com")
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Patient not found", appErr.Message)
}

func TestPatientUserAlreadyLinked(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Patients)
	ctx := context.Background()

	user := &model.User{Username: "jane"}
	require.NoError(t, store.Users.Create(ctx, user))

	_, err := svc.CreatePatient(ctx, model.CreatePatientRequest{Email: "a@example.com", UserID: &user.ID})
	require.NoError(t, err)

	_, err = svc.CreatePatient(ctx, model.CreatePatientRequest{Email: "b@example.com", UserID: &user.ID})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"patient with this user already exists."}, appErr.Fields["user"])
}
