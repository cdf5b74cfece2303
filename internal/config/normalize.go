package config

import (
	"fmt"
	"os"
	"strings"

	"interviewlens/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTranscription(); err != nil {
		return err
	}
	c.normalizeRecognition()
	c.normalizeNormalize()
	c.normalizeJudge()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() error {
	t := &c.Transcription
	t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
	if t.Backend == "" {
		t.Backend = defaultTranscriptionBackend
	}
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = defaultTranscriptionModel
	}
	t.VADMethod = strings.ToLower(strings.TrimSpace(t.VADMethod))
	if t.VADMethod == "" {
		t.VADMethod = defaultVADMethod
	}
	t.HuggingFace = strings.TrimSpace(t.HuggingFace)
	if t.HuggingFace == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			t.HuggingFace = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			t.HuggingFace = strings.TrimSpace(value)
		}
	}
	if iso := language.ToISO2(t.DefaultLanguage); iso != "" {
		t.DefaultLanguage = iso
	} else {
		t.DefaultLanguage = defaultLanguage
	}
	if strings.TrimSpace(t.ModelPath) != "" {
		var err error
		if t.ModelPath, err = expandPath(t.ModelPath); err != nil {
			return fmt.Errorf("transcription.model_path: %w", err)
		}
	}
	if t.Threads < 0 {
		t.Threads = 0
	}
	return nil
}

func (c *Config) normalizeRecognition() {
	r := &c.Recognition
	r.TessdataPrefix = strings.TrimSpace(r.TessdataPrefix)
	if r.TessdataPrefix == "" {
		if value, ok := os.LookupEnv("TESSDATA_PREFIX"); ok {
			r.TessdataPrefix = strings.TrimSpace(value)
		}
	}
	if r.BatchSize <= 0 {
		r.BatchSize = defaultRecognitionBatchSize
	}
	r.WorkerBinary = strings.TrimSpace(r.WorkerBinary)
	if strings.HasPrefix(r.WorkerBinary, "~") {
		if expanded, err := expandPath(r.WorkerBinary); err == nil {
			r.WorkerBinary = expanded
		}
	}
	if r.UpscaleWidth < 0 {
		r.UpscaleWidth = 0
	}
}

func (c *Config) normalizeNormalize() {
	if len(c.Normalize.SingleCharWhitelist) == 0 {
		c.Normalize.SingleCharWhitelist = nil
		return
	}
	words := make([]string, 0, len(c.Normalize.SingleCharWhitelist))
	seen := make(map[string]struct{}, len(c.Normalize.SingleCharWhitelist))
	for _, word := range c.Normalize.SingleCharWhitelist {
		normalized := strings.ToLower(strings.TrimSpace(word))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		words = append(words, normalized)
	}
	c.Normalize.SingleCharWhitelist = words
}

func (c *Config) normalizeJudge() {
	j := &c.Judge
	j.APIKey = strings.TrimSpace(j.APIKey)
	if j.APIKey == "" {
		for _, key := range []string{"JUDGE_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				j.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	j.BaseURL = strings.TrimSpace(j.BaseURL)
	if j.BaseURL == "" {
		j.BaseURL = defaultJudgeBaseURL
	}
	j.Model = strings.TrimSpace(j.Model)
	if j.Model == "" {
		j.Model = defaultJudgeModel
	}
	if strings.TrimSpace(j.Referer) == "" {
		j.Referer = defaultJudgeReferer
	}
	if strings.TrimSpace(j.Title) == "" {
		j.Title = defaultJudgeTitle
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
