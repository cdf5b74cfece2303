package config

const (
	defaultConfigPath           = "~/.config/interviewlens/config.toml"
	projectConfigName           = "interviewlens.toml"
	defaultWorkDir              = "~/.cache/interviewlens/work"
	defaultLogDir               = "~/.local/share/interviewlens/logs"
	defaultStateDir             = "~/.local/share/interviewlens"
	defaultLogRetentionDays     = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultTranscriptionBackend = BackendWhisperX
	defaultTranscriptionModel   = "large-v3"
	defaultVADMethod            = "silero"
	defaultLanguage             = "en"
	defaultMinSceneDuration     = 2.0
	defaultMinAreaRatio         = 0.15
	defaultConfidenceThreshold  = 0.6
	defaultMinTextLength        = 3
	defaultRecognitionTimeout   = 600
	defaultUpscaleWidth         = 1280
	defaultRecognitionBatchSize = 64
	defaultNoiseTokenRatio      = 0.30
	defaultSimilarityThreshold  = 0.85
	defaultMinSlideLength       = 3
	defaultMinNoiseSamples      = 4
	defaultJudgeBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultJudgeModel           = "google/gemini-2.5-flash"
	defaultJudgeReferer         = "https://github.com/interviewlens/interviewlens"
	defaultJudgeTitle           = "interviewlens judge"
	defaultJudgeTimeoutSeconds  = 120
)

// Transcription backends.
const (
	BackendWhisperX   = "whisperx"
	BackendWhisperCPP = "whispercpp"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Transcription: Transcription{
			Backend:         defaultTranscriptionBackend,
			Model:           defaultTranscriptionModel,
			VADMethod:       defaultVADMethod,
			DefaultLanguage: defaultLanguage,
		},
		Slides: Slides{
			MinSceneDuration: defaultMinSceneDuration,
			MinAreaRatio:     defaultMinAreaRatio,
		},
		Recognition: Recognition{
			ConfidenceThreshold: defaultConfidenceThreshold,
			MinTextLength:       defaultMinTextLength,
			TimeoutSeconds:      defaultRecognitionTimeout,
			UpscaleWidth:        defaultUpscaleWidth,
			BatchSize:           defaultRecognitionBatchSize,
		},
		Normalize: Normalize{
			NoiseTokenRatio:     defaultNoiseTokenRatio,
			SimilarityThreshold: defaultSimilarityThreshold,
			MinSlideLength:      defaultMinSlideLength,
			MinNoiseSamples:     defaultMinNoiseSamples,
		},
		Judge: Judge{
			BaseURL:        defaultJudgeBaseURL,
			Model:          defaultJudgeModel,
			Referer:        defaultJudgeReferer,
			Title:          defaultJudgeTitle,
			TimeoutSeconds: defaultJudgeTimeoutSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
