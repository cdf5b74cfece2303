package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSlides(); err != nil {
		return err
	}
	if err := c.validateRecognition(); err != nil {
		return err
	}
	if err := c.validateNormalize(); err != nil {
		return err
	}
	if err := c.validateJudge(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Backend {
	case BackendWhisperX:
		switch c.Transcription.VADMethod {
		case "silero", "pyannote":
		default:
			return fmt.Errorf("transcription.vad_method must be silero or pyannote, got %q", c.Transcription.VADMethod)
		}
	case BackendWhisperCPP:
		if strings.TrimSpace(c.Transcription.ModelPath) == "" {
			return errors.New("transcription.model_path must be set when transcription.backend is whispercpp")
		}
	default:
		return fmt.Errorf("transcription.backend must be %s or %s, got %q", BackendWhisperX, BackendWhisperCPP, c.Transcription.Backend)
	}
	return nil
}

func (c *Config) validateSlides() error {
	if c.Slides.MinSceneDuration < 0 {
		return errors.New("slides.min_scene_duration must not be negative")
	}
	if err := ensureUnitInterval("slides.min_area_ratio", c.Slides.MinAreaRatio); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRecognition() error {
	if err := ensureUnitInterval("recognition.confidence_threshold", c.Recognition.ConfidenceThreshold); err != nil {
		return err
	}
	if c.Recognition.MinTextLength < 0 {
		return errors.New("recognition.min_text_length must not be negative")
	}
	return ensurePositiveMap(map[string]int{
		"recognition.timeout_seconds": c.Recognition.TimeoutSeconds,
		"recognition.batch_size":      c.Recognition.BatchSize,
	})
}

func (c *Config) validateNormalize() error {
	n := c.Normalize
	if n.NoiseTokenRatio <= 0 || n.NoiseTokenRatio > 1 {
		return errors.New("normalize.noise_token_ratio must be greater than 0 and at most 1")
	}
	if err := ensureUnitInterval("normalize.similarity_threshold", n.SimilarityThreshold); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"normalize.min_slide_length":  n.MinSlideLength,
		"normalize.min_noise_samples": n.MinNoiseSamples,
	}); err != nil {
		return err
	}
	for _, word := range n.SingleCharWhitelist {
		if len([]rune(word)) != 1 {
			return fmt.Errorf("normalize.single_char_whitelist entries must be one character, got %q", word)
		}
	}
	return nil
}

func (c *Config) validateJudge() error {
	if !c.Judge.Enabled {
		return nil
	}
	if c.Judge.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("judge.api_key is required when judge.enabled is true. Set JUDGE_API_KEY env var or edit %s (create with 'interviewlens config init')", defaultPath)
	}
	if c.Judge.TimeoutSeconds <= 0 {
		return errors.New("judge.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}

func ensureUnitInterval(key string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1", key)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
