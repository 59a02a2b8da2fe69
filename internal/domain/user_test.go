package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/libadmin/internal/domain"
)

func TestUser_EditFormStartsWithBlankPassword(t *testing.T) {
	u := domain.User{
		ID:             "u1",
		Name:           "Budi",
		Email:          "budi@example.org",
		Password:       "secret",
		MembershipDate: "2023-07-01T00:00:00.000Z",
	}

	form := u.EditForm()

	assert.Equal(t, "Budi", form.Name)
	assert.Equal(t, "budi@example.org", form.Email)
	assert.Empty(t, form.Password)
	assert.Equal(t, "2023-07-01", form.MembershipDate)
}

func TestUserInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.UserInput
		wantErr string
	}{
		{
			name: "complete",
			in:   domain.UserInput{Name: "A", Email: "a@x.org", Password: "p", MembershipDate: "2024-01-01"},
		},
		{
			name:    "password required on create",
			in:      domain.UserInput{Name: "A", Email: "a@x.org", MembershipDate: "2024-01-01"},
			wantErr: "password is required",
		},
		{
			name:    "name required",
			in:      domain.UserInput{Email: "a@x.org", Password: "p", MembershipDate: "2024-01-01"},
			wantErr: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUserUpdate_PasswordOptional(t *testing.T) {
	upd := domain.UserInput{Name: "A", Email: "a@x.org"}.Update()
	require.NoError(t, upd.Validate())

	body, err := json.Marshal(upd)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A","email":"a@x.org"}`, string(body))
}

func TestUser_DecodesBackendShape(t *testing.T) {
	var u domain.User
	err := json.Unmarshal([]byte(`{"user_id":"7","name":"Sari","email":"s@x.org","membership_date":"2024-02-02"}`), &u)
	require.NoError(t, err)

	assert.Equal(t, "7", u.ID)
	assert.Equal(t, "Sari", u.Name)
	assert.Equal(t, "2024-02-02", u.MembershipDate)
}

func TestAuthor_EditForm(t *testing.T) {
	a := domain.Author{ID: "a1", Name: "Chairil Anwar", Nationality: "Indonesian", Birthdate: "1922-07-26"}

	form := a.EditForm()

	assert.Equal(t, domain.AuthorInput{Name: "Chairil Anwar", Nationality: "Indonesian", Birthdate: "1922-07-26"}, form)
	require.NoError(t, form.Validate())
	assert.Equal(t, "Chairil Anwar", form.Update().Name)
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "Mar 1, 2024", domain.DisplayDate("2024-03-01"))
	assert.Equal(t, "Mar 1, 2024", domain.DisplayDate("2024-03-01T00:00:00Z"))
	assert.Equal(t, "March 1, 2024", domain.LongDate("2024-03-01"))
	assert.Equal(t, "not a date", domain.DisplayDate("not a date"))
}
