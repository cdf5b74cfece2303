package language

import (
	"testing"
)

func TestToRecognizer(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Identity mappings
		{"en", "en"},
		{"es", "es"},
		{"ru", "ru"},
		{"ar", "ar"},
		{"hi", "hi"},
		{"pt", "pt"},
		{"it", "it"},
		{"pl", "pl"},
		{"tr", "tr"},
		{"vi", "vi"},
		{"th", "th"},
		{"sv", "sv"},
		{"da", "da"},
		{"no", "no"},
		{"fi", "fi"},
		// Renamed mappings
		{"zh", "ch"},
		{"fr", "french"},
		{"de", "german"},
		{"ja", "japan"},
		{"ko", "korean"},
		{"nl", "dutch"},
		// Case and whitespace
		{"ZH", "ch"},
		{" fr ", "french"},
		// Region and script subtags
		{"en-US", "en"},
		{"zh-Hans", "ch"},
		{"pt_BR", "pt"},
		// Fallback
		{"", "en"},
		{" ", "en"},
		{"xx", "en"},
		{"unknown", "en"},
		{"x-klingon", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToRecognizer(tt.input)
			if result != tt.expected {
				t.Errorf("ToRecognizer(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTrainedData(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"ch", "chi_sim"},
		{"french", "fra"},
		{"german", "deu"},
		{"japan", "jpn"},
		{"korean", "kor"},
		{"dutch", "nld"},
		{"es", "spa"},
		{"de", "deu"},
		{"", "eng"},
		{"klingon", "eng"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := TrainedData(tt.input)
			if result != tt.expected {
				t.Errorf("TrainedData(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRecognizerRoundTrip(t *testing.T) {
	for _, e := range languages {
		if got := TrainedData(ToRecognizer(e.code2)); got != e.traineddata {
			t.Errorf("TrainedData(ToRecognizer(%q)) = %q, want %q", e.code2, got, e.traineddata)
		}
	}
}

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"ger", "de"},
		{"chi", "zh"},
		{"tur", "tr"},
		{"english", "en"},
		{"GERMAN", "de"},
		{"en-GB", "en"},
		{"xy", "xy"},
		{"xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO2(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"ja", "Japanese"},
		{"vie", "Vietnamese"},
		{"xx", "XX"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := DisplayName(tt.input)
			if result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	if !Supported("nl") {
		t.Fatal("expected nl to be supported")
	}
	if Supported("xx") {
		t.Fatal("expected xx to be unsupported")
	}
}
