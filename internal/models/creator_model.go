package models

const (
	PrivacyPublic        = "PUBLIC_TO_EVERYONE"
	PrivacyMutualFriends = "MUTUAL_FOLLOW_FRIENDS"
	PrivacyFollowers     = "FOLLOWER_OF_CREATOR"
	PrivacySelfOnly      = "SELF_ONLY"
)

// CreatorPermissions are the provider constraints reported for a linked account.
type CreatorPermissions struct {
	CreatorAvatarURL        string   `json:"creator_avatar_url"`
	CreatorUsername         string   `json:"creator_username"`
	CreatorNickname         string   `json:"creator_nickname"`
	PrivacyLevelOptions     []string `json:"privacy_level_options"`
	CommentDisabled         bool     `json:"comment_disabled"`
	DuetDisabled            bool     `json:"duet_disabled"`
	StitchDisabled          bool     `json:"stitch_disabled"`
	MaxVideoPostDurationSec int      `json:"max_video_post_duration_sec"`
}
