package stats

// Payer-load bucket labels, coarsest view of how many linked accounts a
// payer manages.
const (
	BucketNone      = "none"
	BucketLight     = "light"      // 1-2 linked accounts
	BucketMedium    = "medium"     // 3-5
	BucketHeavy     = "heavy"      // 6-10
	BucketVeryHeavy = "very heavy" // more than 10
)

// LoadBucket maps a linked-account count to its load bucket.
func LoadBucket(linked int) string {
	switch {
	case linked <= 0:
		return BucketNone
	case linked <= 2:
		return BucketLight
	case linked <= 5:
		return BucketMedium
	case linked <= 10:
		return BucketHeavy
	default:
		return BucketVeryHeavy
	}
}

// Support-profile labels for a payer's technical-support share.
const (
	ProfileTechnicalOriented = "technical-oriented" // >= 80% technical
	ProfileTechnicalPrimary  = "technical-primary"  // >= 50%
	ProfileMixed             = "mixed"              // >= 20%
	ProfileNonTechnical      = "non-technical"
)

// SupportProfile labels a payer by the share of its cases that are
// technical-support cases. A payer with no cases is non-technical.
func SupportProfile(technical, total int) string {
	if total <= 0 {
		return ProfileNonTechnical
	}
	share := 100 * float64(technical) / float64(total)
	switch {
	case share >= 80:
		return ProfileTechnicalOriented
	case share >= 50:
		return ProfileTechnicalPrimary
	case share >= 20:
		return ProfileMixed
	default:
		return ProfileNonTechnical
	}
}
