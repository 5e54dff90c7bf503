package transfer

import "github.com/maheshrc27/clipstudio/internal/models"

type ConnectionCreation struct {
	Code        string `json:"code"`
	RedirectURL string `json:"redirectUrl"`
}

type LayersRequest struct {
	Layers []models.Layer `json:"layers"`
}

type PublishCreation struct {
	AssetKey     string  `json:"asset_key"`
	DurationSec  float64 `json:"duration_sec"`
	Title        string  `json:"title"`
	Privacy      string  `json:"privacy"`
	AllowComment bool    `json:"allow_comment"`
	AllowDuet    bool    `json:"allow_duet"`
	AllowStitch  bool    `json:"allow_stitch"`
}
