package config

import "errors"

// 参数校验错误。Options.Validate 同时包装 i2stypes.ErrInvalidParameter，两者都能匹配。
var (
	// num_colors 不在 [2, 256]
	ErrInvalidNumColors = errors.New("invalid num_colors: must be between 2 and 256")

	// 模糊核尺寸不在 [0, 21]
	ErrInvalidKernelSize = errors.New("invalid kernel size: must be between 0 and 21")

	// dilate_iterations 不在 [0, 5]
	ErrInvalidDilateIterations = errors.New("invalid dilate_iterations: must be between 0 and 5")

	// epsilon_factor 不在 [0, 1]
	ErrInvalidEpsilonFactor = errors.New("invalid epsilon_factor: must be between 0 and 1")

	// max_side_length 为负
	ErrInvalidMaxSideLength = errors.New("invalid max_side_length: must be non-negative")

	ErrInvalidResizePolicy = errors.New("invalid resize_policy: must be shrink or upscale")

	// 开启描边但宽度不为正
	ErrInvalidStrokeWidth = errors.New("invalid stroke_width: must be positive")

	ErrInvalidQuantizer = errors.New("invalid quantizer: must be kmeans, mediancut, sampled or dominant")

	ErrInvalidWorkers = errors.New("invalid workers: must be positive")
)
