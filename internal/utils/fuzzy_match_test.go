package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testCategories = []string{"Tech", "Vehicles", "Rooms", "Equipment", "Fashion", "Studios", "Tools", "Digital"}

var testSynonyms = map[string][]string{
	"Tools":    {"hardware", "power tool"},
	"Vehicles": {"car", "truck", "van"},
	"Tech":     {"electronics", "camera"},
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		label  string
		want   string
		wantOK bool
	}{
		{label: "Tools", want: "Tools", wantOK: true},
		{label: "tools", want: "Tools", wantOK: true},
		{label: "  TOOL ", want: "Tools", wantOK: true},
		{label: "vehicle", want: "Vehicles", wantOK: true},
		{label: "Studio", want: "Studios", wantOK: true},
		{label: "cars", want: "Vehicles", wantOK: true},
		{label: "Electronics", want: "Tech", wantOK: true},
		{label: "power tools", want: "Tools", wantOK: true},
		{label: "Furniture", wantOK: false},
		{label: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := MatchCategory(tt.label, testCategories, testSynonyms)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchCategory_NilSynonyms(t *testing.T) {
	got, ok := MatchCategory("digital", testCategories, nil)
	assert.True(t, ok)
	assert.Equal(t, "Digital", got)

	_, ok = MatchCategory("car", testCategories, nil)
	assert.False(t, ok)
}
