package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	out, err := Signup.Validate(map[string]any{
		"username": "bob",
		"email":    "Bob@X.com",
		"password": "Passw0rd",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", out["role"])
	assert.Equal(t, "bob@x.com", out["email"])

	_, err = Signup.Validate(map[string]any{
		"username": "b!",
		"email":    "nope",
		"password": "abc",
	})
	assert.ElementsMatch(t, []string{
		"Username must be at least 3 characters long",
		"Username must contain only alphanumeric characters",
		"Please provide a valid email address",
		"Password must be at least 6 characters long",
		"Password must contain at least one lowercase letter, one uppercase letter, and one digit",
	}, errorsOf(t, err))
}

func TestSignup_MissingEverything(t *testing.T) {
	_, err := Signup.Validate(map[string]any{})
	assert.Equal(t, []string{
		"Username is required",
		"Email is required",
		"Password is required",
	}, errorsOf(t, err))
}

func TestLogin(t *testing.T) {
	_, err := Login.Validate(map[string]any{"email": ""})
	assert.Equal(t, []string{"Email is required", "Password is required"}, errorsOf(t, err))
}

func TestClient_RoundTrip(t *testing.T) {
	out, err := Client.Validate(map[string]any{
		"name":     "  Acme  ",
		"email":    "CONTACT@Acme.com",
		"phone":    "+1234567890",
		"company":  " Acme Corp ",
		"address":  map[string]any{"city": " NYC ", "planet": "Earth"},
		"createdBy": "64b000000000000000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", out["name"])
	assert.Equal(t, "contact@acme.com", out["email"])
	assert.Equal(t, "Acme Corp", out["company"])
	assert.Equal(t, true, out["isActive"])
	assert.Equal(t, map[string]any{"city": "NYC"}, out["address"])
	assert.NotContains(t, out, "createdBy")
}

func TestClient_Violations(t *testing.T) {
	_, err := Client.Validate(map[string]any{
		"name":  strings.Repeat("n", 101),
		"email": "bad",
		"phone": "0123",
	})
	assert.Equal(t, []string{
		"Name must not exceed 100 characters",
		"Please provide a valid email address",
		"Please provide a valid phone number",
	}, errorsOf(t, err))
}

func TestProject_Defaults(t *testing.T) {
	out, err := Project.Validate(map[string]any{
		"name":   "Site",
		"client": "64b0c0ffee0000000000abcd",
		"deliverables": []any{
			map[string]any{"name": "Design"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "planning", out["status"])
	assert.Equal(t, "medium", out["priority"])
	assert.Equal(t, true, out["isActive"])
	assert.Equal(t, []any{map[string]any{"name": "Design", "completed": false}}, out["deliverables"])
}

func TestProject_RequiredFieldsReportedTogether(t *testing.T) {
	_, err := Project.Validate(map[string]any{})
	assert.Equal(t, []string{"Name is required", "Client is required"}, errorsOf(t, err))
}

func TestProject_Violations(t *testing.T) {
	_, err := Project.Validate(map[string]any{
		"name":        "P",
		"client":      "not-an-id",
		"status":      "done",
		"budget":      -5.0,
		"startDate":   "2024-12-31",
		"endDate":     "2024-01-01",
		"teamMembers": []any{"xyz"},
	})
	msgs := errorsOf(t, err)
	assert.Contains(t, msgs, "Invalid client ID format")
	assert.Contains(t, msgs, `"status" must be one of [planning, in-progress, completed, on-hold, cancelled]`)
	assert.Contains(t, msgs, "Budget must be a positive number")
	assert.Contains(t, msgs, "End date must be after start date")
	assert.Contains(t, msgs, "Invalid team member ID format")
	assert.Len(t, msgs, 5)
}

func TestProject_BadDateFormat(t *testing.T) {
	_, err := Project.Validate(map[string]any{
		"name":      "P",
		"client":    "64b0c0ffee0000000000abcd",
		"startDate": "yesterday",
	})
	assert.Equal(t, []string{"Start date must be in ISO format"}, errorsOf(t, err))
}

func TestTeamMember(t *testing.T) {
	_, err := TeamMember.Validate(map[string]any{})
	assert.Equal(t, []string{"User ID is required"}, errorsOf(t, err))

	out, err := TeamMember.Validate(map[string]any{"userId": " 64b7f0c2a1b2c3d4e5f60718 ", "extra": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"userId": "64b7f0c2a1b2c3d4e5f60718"}, out)
}

func TestUpdateSchemas_NoDefaults(t *testing.T) {
	out, err := ClientUpdate.Validate(map[string]any{"name": "Acme", "email": "a@acme.com"})
	require.NoError(t, err)
	assert.NotContains(t, out, "isActive")

	out, err = ProjectUpdate.Validate(map[string]any{"name": "Site", "client": "64b0c0ffee0000000000abcd"})
	require.NoError(t, err)
	assert.NotContains(t, out, "isActive")
	assert.NotContains(t, out, "status")
	assert.NotContains(t, out, "priority")

	out, err = ClientUpdate.Validate(map[string]any{"name": "Acme", "email": "a@acme.com", "isActive": false})
	require.NoError(t, err)
	assert.Equal(t, false, out["isActive"])

	// the create schemas keep theirs
	out, err = Client.Validate(map[string]any{"name": "Acme", "email": "a@acme.com"})
	require.NoError(t, err)
	assert.Equal(t, true, out["isActive"])
}
