package condition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		want Tag
	}{
		{0, Sunny},
		{1, Sunny},
		{2, Cloudy},
		{3, Cloudy},
		{45, Cloudy},
		{51, Rainy},
		{61, Rainy},
		{67, Rainy},
		{71, Snowy},
		{75, Snowy},
		{77, Snowy},
		{80, Rainy},
		{82, Rainy},
		{85, Snowy},
		{86, Snowy},
		{95, Rainy},
		{96, Rainy},
		{97, Cloudy},
		{99, Rainy},
		{-1, Cloudy},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.code), "code %d", tt.code)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for code := -200; code <= 200; code++ {
		assert.Contains(t, []Tag{Sunny, Rainy, Snowy, Cloudy}, Classify(code), "code %d", code)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Slight rain", Describe(61))
	assert.Equal(t, "Partly cloudy", Describe(2))
	assert.Equal(t, "Thunderstorm", Describe(95))
	assert.Equal(t, "Clear sky", Describe(0))
	assert.Equal(t, Unknown, Describe(-1))
	assert.Equal(t, Unknown, Describe(4))
	assert.Len(t, descriptions, 24)
}

func TestWindLabel(t *testing.T) {
	tests := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{359, "N"},
		{22.5, "NNE"},
		{11.25, "NNE"},
		{11.2, "N"},
		{360, "N"},
		{450, "E"},
		{-90, "W"},
		{-22.5, "NNW"},
		{-720, "N"},
		{math.NaN(), "N"},
		{math.Inf(1), "N"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WindLabel(tt.degrees), "degrees %v", tt.degrees)
	}
}
