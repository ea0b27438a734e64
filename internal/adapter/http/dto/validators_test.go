package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct_TrimsAndEscapes(t *testing.T) {
	desc := "  <b>bold</b>  "
	req := struct {
		Name        string
		Description *string
	}{
		Name:        "  <script>alert(1)</script>  ",
		Description: &desc,
	}

	SanitizeStruct(&req)

	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", req.Name)
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", *req.Description)
}

func TestSanitizeStruct_IgnoresNonStructs(t *testing.T) {
	s := "unchanged"
	SanitizeStruct(s)
	SanitizeStruct(&s)
	assert.Equal(t, "unchanged", s)
}

func TestValidateSafeID(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"SKU-100.v2", true},
		{"alice_99", true},
		{"has space", false},
		{"semi;colon", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, safeStringRe.MatchString(tc.in), "input %q", tc.in)
	}
}
