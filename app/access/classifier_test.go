package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want RouteTags
	}{
		{"/", RouteTags{Public: true}},
		{"/products", RouteTags{Public: true}},
		{"/products/lawlaw-premium", RouteTags{Public: true}},
		{"/categories", RouteTags{Public: true}},
		{"/login", RouteTags{Auth: true}},
		{"/register", RouteTags{Auth: true}},
		{"/verify-otp", RouteTags{Otp: true}},
		{"/profile", RouteTags{Protected: true}},
		{"/checkout", RouteTags{Protected: true}},
		{"/orders", RouteTags{Protected: true}},
		{"/orders/42", RouteTags{Protected: true}},
		{"/notifications", RouteTags{Protected: true}},
		{"/seller/products", RouteTags{Protected: true}},
		// Admin paths carry both tags.
		{"/admin", RouteTags{Protected: true, Admin: true}},
		{"/admin/users/7/role", RouteTags{Protected: true, Admin: true}},
		// Prefix matching stops at path boundaries.
		{"/ordersx", RouteTags{}},
		{"/loginx", RouteTags{}},
		{"/administrator", RouteTags{}},
		{"/unknown", RouteTags{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}
