package fraud

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"refguard/internal/verification/models"
	"refguard/pkg/email"
)

// Check names, stable across releases: they appear in audit payloads and
// metric labels.
const (
	CheckDeviceOverlap            = "device_overlap"
	CheckPostingVelocity          = "posting_velocity"
	CheckInteractionConcentration = "interaction_concentration"
	CheckGroupMessageBurst        = "group_message_burst"
	CheckActivityBurst            = "activity_burst"
	CheckContentQuality           = "content_quality"
	CheckEmailAlias               = "email_alias"
)

const (
	velocityMinPosts = 2
	velocityMeanGap  = 2 * time.Minute

	concentrationMinInteractions = 5
	concentrationMinAuthors      = 3

	burstWindowMessages = 3
	burstWindow         = 5 * time.Minute

	newAccountAge      = 24 * time.Hour
	newAccountMinItems = 4

	thinContentMeanWords = 10
)

func checkDeviceOverlap(devices, referrerDevices []string) CheckResult {
	res := CheckResult{Name: CheckDeviceOverlap}
	if len(devices) == 0 || len(referrerDevices) == 0 {
		return res
	}
	seen := make(map[string]struct{}, len(referrerDevices))
	for _, d := range referrerDevices {
		seen[d] = struct{}{}
	}
	for _, d := range devices {
		if _, ok := seen[d]; ok {
			res.Score = 50
			res.Flag = FlagSameDevice
			res.Details = "shared device with referrer"
			return res
		}
	}
	return res
}

func checkPostingVelocity(posts []Post) CheckResult {
	res := CheckResult{Name: CheckPostingVelocity}
	if len(posts) < velocityMinPosts {
		return res
	}
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	span := sorted[len(sorted)-1].CreatedAt.Sub(sorted[0].CreatedAt)
	mean := span / time.Duration(len(sorted)-1)
	if mean < velocityMeanGap {
		res.Score = 25
		res.Flag = FlagRapidPosting
		res.Details = fmt.Sprintf("%d posts, mean gap %s", len(sorted), mean.Round(time.Second))
	}
	return res
}

func checkInteractionConcentration(interactions []Interaction) CheckResult {
	res := CheckResult{Name: CheckInteractionConcentration}
	if len(interactions) < concentrationMinInteractions {
		return res
	}
	authors := make(map[string]struct{})
	for _, in := range interactions {
		authors[in.AuthorID] = struct{}{}
	}
	if len(authors) < concentrationMinAuthors {
		res.Score = 40
		res.Flag = FlagConcentratedInteractions
		res.Details = fmt.Sprintf("%d interactions across %d authors", len(interactions), len(authors))
	}
	return res
}

func checkGroupMessageBurst(messages []Message) CheckResult {
	res := CheckResult{Name: CheckGroupMessageBurst}
	if len(messages) < burstWindowMessages {
		return res
	}
	sorted := make([]Message, len(messages))
	copy(sorted, messages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	for i := 0; i+burstWindowMessages <= len(sorted); i++ {
		first := sorted[i].CreatedAt
		last := sorted[i+burstWindowMessages-1].CreatedAt
		if last.Sub(first) <= burstWindow {
			res.Score = 30
			res.Flag = FlagGroupMessageBurst
			res.Details = fmt.Sprintf("%d messages within %s", burstWindowMessages, last.Sub(first).Round(time.Second))
			return res
		}
	}
	return res
}

func checkActivityBurst(rec *models.VerificationRecord, now time.Time) CheckResult {
	res := CheckResult{Name: CheckActivityBurst}
	if rec == nil {
		return res
	}
	if rec.AccountAge(now) >= newAccountAge {
		return res
	}
	done := rec.CompletedEventItems()
	if done >= newAccountMinItems {
		res.Score = 30
		res.Flag = FlagNewAccountBurst
		res.Details = fmt.Sprintf("%d checklist items inside first 24h", done)
	}
	return res
}

func checkContentQuality(posts []Post) CheckResult {
	res := CheckResult{Name: CheckContentQuality}
	if len(posts) == 0 {
		return res
	}
	var words int
	for _, p := range posts {
		words += len(strings.Fields(p.Title)) + len(strings.Fields(p.Body))
	}
	mean := words / len(posts)
	if mean < thinContentMeanWords {
		res.Score = 20
		res.Flag = FlagThinContent
		res.Details = fmt.Sprintf("mean %d words per post", mean)
	}
	return res
}

// checkEmailAlias flags plus-addressed signups (user+tag@domain), a cheap
// way to mint many accounts behind one inbox.
func checkEmailAlias(address string) CheckResult {
	res := CheckResult{Name: CheckEmailAlias}
	if email.HasPlusAlias(address) {
		res.Score = 10
		res.Flag = FlagEmailAlias
		res.Details = "plus-addressed email"
	}
	return res
}
