package service

import (
	"fmt"

	"github.com/jeweai/media_vault/biz/dal/model"
)

// Generation presets per aspect ratio. Image generation targets higher
// resolutions than video.
var imagePresets = map[string][2]int{
	"1:1":  {1024, 1024},
	"16:9": {1920, 1080},
	"9:16": {1080, 1920},
	"4:3":  {1600, 1200},
	"3:4":  {1200, 1600},
}

var videoPresets = map[string][2]int{
	"1:1":  {720, 720},
	"16:9": {1280, 720},
	"9:16": {720, 1280},
	"4:3":  {960, 720},
	"3:4":  {720, 960},
}

const (
	defaultImageRatio = "1:1"
	defaultVideoRatio = "16:9"
)

// presetDimensions resolves target width/height for a generation job from
// the aspect-ratio table. Unknown or empty ratios fall back to the per-type
// default preset.
func presetDimensions(taskType, aspectRatio string) (width, height int, ratio string) {
	presets := imagePresets
	ratio = defaultImageRatio
	if taskType == model.TaskTypeVideo {
		presets = videoPresets
		ratio = defaultVideoRatio
	}
	if _, ok := presets[aspectRatio]; ok {
		ratio = aspectRatio
	}
	dims := presets[ratio]
	return dims[0], dims[1], ratio
}

// reduceRatio computes the reduced width:height ratio string, e.g.
// 1280x720 -> "16:9". Degenerate dimensions yield "1:1".
func reduceRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "1:1"
	}
	a, b := width, height
	for b != 0 {
		a, b = b, a%b
	}
	return fmt.Sprintf("%d:%d", width/a, height/a)
}
