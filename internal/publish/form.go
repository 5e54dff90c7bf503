package publish

import (
	"fmt"

	"github.com/maheshrc27/clipstudio/internal/models"
)

const (
	MusicUsageConfirmationURL = "https://www.tiktok.com/legal/page/global/music-usage-confirmation/en"
	unauditedWarning          = "At the moment we can only upload videos to private accounts and as a private video. " +
		"You can then change the privacy setting after uploading is complete"
)

var privacyDisplayNames = map[string]string{
	models.PrivacyPublic:        "Public",
	models.PrivacyMutualFriends: "Friends only",
	models.PrivacySelfOnly:      "Private",
	models.PrivacyFollowers:     "Followers only",
}

func PrivacyDisplayName(level string) string {
	if name, ok := privacyDisplayNames[level]; ok {
		return name
	}
	return level
}

// PrivacyOptions returns the privacy levels that may be offered. In
// unaudited mode only SELF_ONLY survives, and only if the provider offers it.
func PrivacyOptions(offered []string, unaudited bool) []string {
	options := make([]string, 0, len(offered))
	for _, level := range offered {
		if unaudited && level != models.PrivacySelfOnly {
			continue
		}
		options = append(options, level)
	}
	return options
}

// FilterPermissions applies the compliance mode to provider permissions.
func FilterPermissions(perms models.CreatorPermissions, unaudited bool) models.CreatorPermissions {
	perms.PrivacyLevelOptions = PrivacyOptions(perms.PrivacyLevelOptions, unaudited)
	return perms
}

// OverDurationLimit reports whether a clip is longer than the account allows.
// Unknown limits never block.
func OverDurationLimit(durationSec float64, perms *models.CreatorPermissions) bool {
	if perms == nil || perms.MaxVideoPostDurationSec <= 0 {
		return false
	}
	return durationSec > float64(perms.MaxVideoPostDurationSec)
}

type PrivacyChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Toggle struct {
	Visible  bool `json:"visible"`
	Disabled bool `json:"disabled"`
}

type FormView struct {
	Loading           bool            `json:"loading"`
	Error             string          `json:"error,omitempty"`
	Creator           string          `json:"creator,omitempty"`
	PrivacyOptions    []PrivacyChoice `json:"privacy_options"`
	Comment           Toggle          `json:"comment"`
	Duet              Toggle          `json:"duet"`
	Stitch            Toggle          `json:"stitch"`
	MaxDurationSec    int             `json:"max_duration_sec,omitempty"`
	OverDurationLimit bool            `json:"over_duration_limit"`
	DurationError     string          `json:"duration_error,omitempty"`
	UnauditedWarning  string          `json:"unaudited_warning,omitempty"`
	ConsentText       string          `json:"consent_text"`
	ConsentURL        string          `json:"consent_url"`
	CanSubmit         bool            `json:"can_submit"`
}

type FormInput struct {
	Permissions *models.CreatorPermissions
	Loading     bool
	Error       string
	DurationSec float64
	Unaudited   bool
}

// BuildForm computes what the publish form offers for a linked account.
// Submission is blocked while permissions load or the clip is too long.
func BuildForm(in FormInput) FormView {
	view := FormView{
		Loading:        in.Loading,
		Error:          in.Error,
		PrivacyOptions: []PrivacyChoice{},
		ConsentText:    "By posting, you agree to TikTok's Music Usage Confirmation",
		ConsentURL:     MusicUsageConfirmationURL,
	}
	if in.Unaudited {
		view.UnauditedWarning = unauditedWarning
	}

	perms := in.Permissions
	if perms != nil {
		view.Creator = perms.CreatorNickname
		for _, level := range PrivacyOptions(perms.PrivacyLevelOptions, in.Unaudited) {
			view.PrivacyOptions = append(view.PrivacyOptions, PrivacyChoice{Value: level, Label: PrivacyDisplayName(level)})
		}
		view.MaxDurationSec = perms.MaxVideoPostDurationSec
		view.Comment = toggleFor(in.Loading, perms.CommentDisabled)
		view.Duet = toggleFor(in.Loading, perms.DuetDisabled)
		view.Stitch = toggleFor(in.Loading, perms.StitchDisabled)
	}

	view.OverDurationLimit = OverDurationLimit(in.DurationSec, perms)
	if view.OverDurationLimit {
		view.DurationError = fmt.Sprintf("This clip is too long, you can upload up to %d seconds", perms.MaxVideoPostDurationSec)
	}

	view.CanSubmit = !in.Loading && in.Error == "" && !view.OverDurationLimit
	return view
}

func toggleFor(loading, providerDisabled bool) Toggle {
	return Toggle{Visible: !loading, Disabled: loading || providerDisabled}
}
