package validation

import (
	"regexp"
	"unicode"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

var (
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	phonePattern    = regexp.MustCompile(`^[\+]?[1-9][\d]{0,15}$`)
)

// passwordStrength requires a lowercase letter, an uppercase letter and a digit.
var passwordStrength = MatcherFunc(func(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
})

const msgInvalidEmail = "Please provide a valid email address"

func emailField(lower bool) Field {
	return Field{
		Name:     "email",
		Kind:     String,
		Required: true,
		Trim:     true,
		Lower:    lower,
		Format:   "email",
		Messages: map[Rule]string{
			RuleRequired: "Email is required",
			RuleType:     msgInvalidEmail,
			RuleEmpty:    "Email is required",
			RuleFormat:   msgInvalidEmail,
		},
	}
}

// Signup validates POST /api/auth/signup.
var Signup = Schema{
	Name: "signup",
	Fields: []Field{
		{
			Name:     "username",
			Kind:     String,
			Required: true,
			Trim:     true,
			Min:      Limit(3),
			Max:      Limit(50),
			Format:   "alphanum",
			Messages: map[Rule]string{
				RuleRequired: "Username is required",
				RuleFormat:   "Username must contain only alphanumeric characters",
				RuleMin:      "Username must be at least 3 characters long",
				RuleMax:      "Username must not exceed 50 characters",
			},
		},
		emailField(true),
		{
			Name:     "password",
			Kind:     String,
			Required: true,
			Min:      Limit(6),
			Pattern:  passwordStrength,
			Messages: map[Rule]string{
				RuleRequired: "Password is required",
				RuleMin:      "Password must be at least 6 characters long",
				RulePattern:  "Password must contain at least one lowercase letter, one uppercase letter, and one digit",
			},
		},
		{
			Name:    "role",
			Kind:    String,
			Trim:    true,
			Enum:    []string{domain.RoleAdmin, domain.RoleUser},
			Default: domain.RoleUser,
		},
	},
}

// Login validates POST /api/auth/login.
var Login = Schema{
	Name: "login",
	Fields: []Field{
		emailField(true),
		{
			Name:     "password",
			Kind:     String,
			Required: true,
			Messages: map[Rule]string{
				RuleRequired: "Password is required",
				RuleEmpty:    "Password is required",
			},
		},
	},
}

func trimmed(name string) Field {
	return Field{Name: name, Kind: String, Trim: true}
}

// Client validates client create and update payloads.
var Client = Schema{
	Name: "client",
	Fields: []Field{
		{
			Name:     "name",
			Kind:     String,
			Required: true,
			Trim:     true,
			Max:      Limit(100),
			Messages: map[Rule]string{
				RuleRequired: "Name is required",
				RuleMax:      "Name must not exceed 100 characters",
			},
		},
		emailField(true),
		{
			Name:    "phone",
			Kind:    String,
			Trim:    true,
			Pattern: phonePattern,
			Messages: map[Rule]string{
				RulePattern: "Please provide a valid phone number",
			},
		},
		{
			Name: "address",
			Kind: Object,
			Fields: []Field{
				trimmed("street"),
				trimmed("city"),
				trimmed("state"),
				trimmed("zipCode"),
				trimmed("country"),
			},
		},
		trimmed("company"),
		trimmed("industry"),
		{Name: "isActive", Kind: Bool, Default: true},
	},
}

func statusValues() []string {
	out := make([]string, len(domain.ProjectStatuses))
	for i, s := range domain.ProjectStatuses {
		out[i] = string(s)
	}
	return out
}

func priorityValues() []string {
	out := make([]string, len(domain.Priorities))
	for i, p := range domain.Priorities {
		out[i] = string(p)
	}
	return out
}

// Project validates project create and update payloads.
var Project = Schema{
	Name: "project",
	Fields: []Field{
		{
			Name:     "name",
			Kind:     String,
			Required: true,
			Trim:     true,
			Max:      Limit(100),
			Messages: map[Rule]string{
				RuleRequired: "Name is required",
				RuleMax:      "Name must not exceed 100 characters",
			},
		},
		{
			Name: "description",
			Kind: String,
			Trim: true,
			Max:  Limit(1000),
			Messages: map[Rule]string{
				RuleMax: "Description must not exceed 1000 characters",
			},
		},
		{
			Name:     "client",
			Kind:     String,
			Required: true,
			Trim:     true,
			Pattern:  objectIDPattern,
			Messages: map[Rule]string{
				RuleRequired: "Client is required",
				RuleEmpty:    "Client is required",
				RuleType:     "Invalid client ID format",
				RulePattern:  "Invalid client ID format",
			},
		},
		{
			Name:    "status",
			Kind:    String,
			Enum:    statusValues(),
			Default: string(domain.StatusPlanning),
		},
		{
			Name:    "priority",
			Kind:    String,
			Enum:    priorityValues(),
			Default: string(domain.PriorityMedium),
		},
		{
			Name: "budget",
			Kind: Number,
			Min:  Limit(0),
			Messages: map[Rule]string{
				RuleMin: "Budget must be a positive number",
			},
		},
		{
			Name: "startDate",
			Kind: Date,
			Messages: map[Rule]string{
				RuleType:   "Start date must be in ISO format",
				RuleFormat: "Start date must be in ISO format",
			},
		},
		{
			Name:   "endDate",
			Kind:   Date,
			MinRef: "startDate",
			Messages: map[Rule]string{
				RuleType:   "End date must be in ISO format",
				RuleFormat: "End date must be in ISO format",
				RuleRef:    domain.MsgEndBeforeStart,
			},
		},
		{
			Name: "deliverables",
			Kind: Array,
			Items: &Field{
				Kind: Object,
				Fields: []Field{
					{Name: "name", Kind: String, Required: true},
					{Name: "description", Kind: String},
					{Name: "completed", Kind: Bool, Default: false},
				},
			},
		},
		{
			Name: "teamMembers",
			Kind: Array,
			Items: &Field{
				Kind:    String,
				Pattern: objectIDPattern,
				Messages: map[Rule]string{
					RulePattern: "Invalid team member ID format",
				},
			},
		},
		{
			Name:  "tags",
			Kind:  Array,
			Items: &Field{Kind: String},
		},
		{Name: "isActive", Kind: Bool, Default: true},
	},
}

// StatusChange validates PATCH /api/projects/:id/status. The enum itself is
// checked by the project service so the error lists the accepted values.
var StatusChange = Schema{
	Name: "status",
	Fields: []Field{
		{Name: "status", Kind: String, Trim: true, AllowEmpty: true},
	},
}

// ClientUpdate and ProjectUpdate validate PUT payloads. Top-level defaults are
// dropped so an omitted key leaves the stored value alone.
var (
	ClientUpdate  = withoutDefaults(Client, "clientUpdate")
	ProjectUpdate = withoutDefaults(Project, "projectUpdate")
)

func withoutDefaults(s Schema, name string) Schema {
	fields := make([]Field, len(s.Fields))
	copy(fields, s.Fields)
	for i := range fields {
		fields[i].Default = nil
	}
	return Schema{Name: name, Fields: fields}
}

// TeamMember validates POST /api/projects/:id/team-members.
var TeamMember = Schema{
	Name: "teamMember",
	Fields: []Field{
		{
			Name:     "userId",
			Kind:     String,
			Required: true,
			Trim:     true,
			Messages: map[Rule]string{
				RuleRequired: "User ID is required",
				RuleType:     "User ID is required",
			},
		},
	},
}
