package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
	StateDir string `toml:"state_dir"`
}

// Transcription configures the speech transcription engine.
type Transcription struct {
	// Backend selects the engine: "whisperx" (uvx subprocess) or
	// "whispercpp" (in-process ggml model).
	Backend         string `toml:"backend"`
	Model           string `toml:"model"`
	ModelPath       string `toml:"model_path"`
	CUDAEnabled     bool   `toml:"cuda_enabled"`
	VADMethod       string `toml:"vad_method"`
	HuggingFace     string `toml:"hf_token"`
	DefaultLanguage string `toml:"default_language"`
	Threads         int    `toml:"threads"`
}

// Slides configures the slide-boundary detector.
type Slides struct {
	MinSceneDuration float64 `toml:"min_scene_duration"`
	MinAreaRatio     float64 `toml:"min_area_ratio"`
}

// Recognition configures the isolated text recognition worker.
type Recognition struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	MinTextLength       int     `toml:"min_text_length"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	TessdataPrefix      string  `toml:"tessdata_prefix"`
	UpscaleWidth        int     `toml:"upscale_width"`
	BatchSize           int     `toml:"batch_size"`
	// WorkerBinary overrides the interviewlens-ocr-worker lookup.
	WorkerBinary string `toml:"worker_binary"`
}

// Normalize configures the slide text normalization engine.
type Normalize struct {
	NoiseTokenRatio     float64  `toml:"noise_token_ratio"`
	SimilarityThreshold float64  `toml:"similarity_threshold"`
	MinSlideLength      int      `toml:"min_slide_length"`
	MinNoiseSamples     int      `toml:"min_noise_samples"`
	SingleCharWhitelist []string `toml:"single_char_whitelist"`
}

// Judge configures the optional judgment engine.
type Judge struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for interviewlens.
//
// Configuration sections by subsystem:
//   - Paths: scratch, log, and state directories
//   - Transcription: speech engine backend and model
//   - Slides: scene-change detection thresholds
//   - Recognition: isolated text recognition worker
//   - Normalize: watermark and near-duplicate thresholds
//   - Judge: optional evaluation engine connection
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Slides        Slides        `toml:"slides"`
	Recognition   Recognition   `toml:"recognition"`
	Normalize     Normalize     `toml:"normalize"`
	Judge         Judge         `toml:"judge"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the scratch, log, and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// RunStorePath returns the location of the run history database.
func (c *Config) RunStorePath() string {
	return filepath.Join(c.Paths.StateDir, "runs.db")
}

// WorkerLockPath returns the lock file guarding the single recognition worker.
func (c *Config) WorkerLockPath() string {
	return filepath.Join(c.Paths.StateDir, "ocr-worker.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// JudgeConfig contains the judgment engine connection settings.
type JudgeConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetJudge returns the trimmed judgment engine connection settings.
func (c *Config) GetJudge() JudgeConfig {
	return JudgeConfig{
		APIKey:         strings.TrimSpace(c.Judge.APIKey),
		BaseURL:        strings.TrimSpace(c.Judge.BaseURL),
		Model:          strings.TrimSpace(c.Judge.Model),
		Referer:        strings.TrimSpace(c.Judge.Referer),
		Title:          strings.TrimSpace(c.Judge.Title),
		TimeoutSeconds: c.Judge.TimeoutSeconds,
	}
}
