package normalize

// Options tunes the normalization engine.
type Options struct {
	// NoiseTokenRatio is the share of samples a token must exceed to be
	// classified as a watermark.
	NoiseTokenRatio float64
	// SimilarityThreshold is the ratio above which a sample repeats the
	// previously accepted slide.
	SimilarityThreshold float64
	// MinSlideLength is the minimum trimmed rune length of a kept slide.
	MinSlideLength int
	// MinNoiseSamples is the smallest session for which watermark statistics
	// are computed. Below it every token would exceed the ratio.
	MinNoiseSamples int
	// SingleCharWhitelist lists single-glyph words kept during pre-cleaning.
	SingleCharWhitelist []string
}

// DefaultOptions returns the stock engine configuration.
func DefaultOptions() Options {
	return Options{
		NoiseTokenRatio:     0.30,
		SimilarityThreshold: 0.85,
		MinSlideLength:      3,
		MinNoiseSamples:     4,
		SingleCharWhitelist: DefaultWhitelist(),
	}
}

// DefaultWhitelist returns the single-glyph words that survive pre-cleaning.
func DefaultWhitelist() []string {
	return []string{
		"a", "i", "o", "e", "y", "u",
		"&", "+", "=", "%", "$", "#", "@",
		"в", "и", "к", "о", "с", "у", "я",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.NoiseTokenRatio <= 0 {
		o.NoiseTokenRatio = def.NoiseTokenRatio
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = def.SimilarityThreshold
	}
	if o.MinSlideLength <= 0 {
		o.MinSlideLength = def.MinSlideLength
	}
	if o.MinNoiseSamples <= 0 {
		o.MinNoiseSamples = def.MinNoiseSamples
	}
	if o.SingleCharWhitelist == nil {
		o.SingleCharWhitelist = def.SingleCharWhitelist
	}
	return o
}
