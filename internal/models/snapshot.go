package models

// Snapshot source tags. Mock snapshots are synthetic fallback data and must
// never be mistaken for real metrics by the caller.
const (
	SourceAPI  = "api"
	SourceMock = "mock"
)

// Post is one recent publication inside a snapshot.
type Post struct {
	Title       string  `json:"title"`
	PublishedAt string  `json:"published_at"`
	Impressions int64   `json:"impressions"`
	Likes       int64   `json:"likes"`
	Comments    int64   `json:"comments"`
	Spend       float64 `json:"spend,omitempty"`
}

// Snapshot is the normalized, cacheable performance summary for one channel.
// It is ephemeral: produced fresh or from cache per request, never the
// system of record.
type Snapshot struct {
	Account        string  `json:"account"`
	Followers      int64   `json:"followers"`
	GrowthRate     float64 `json:"growth_rate"`
	EngagementRate float64 `json:"engagement_rate"`
	LastPostDate   string  `json:"last_post_date,omitempty"`
	LastPostTitle  string  `json:"last_post_title,omitempty"`
	RecentPosts    []Post  `json:"recent_posts"`

	// Provenance: SourceAPI for real upstream data, SourceMock for the
	// synthetic fallback. Error carries the reason a real fetch was not
	// possible.
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

// Normalize backfills the fields every snapshot must carry so callers never
// see nil lists or a missing account name.
func (s *Snapshot) Normalize(accountName string) {
	if s.Account == "" {
		s.Account = accountName
	}
	if s.Followers < 0 {
		s.Followers = 0
	}
	if s.RecentPosts == nil {
		s.RecentPosts = []Post{}
	}
	if len(s.RecentPosts) > 0 {
		if s.LastPostDate == "" {
			s.LastPostDate = s.RecentPosts[0].PublishedAt
		}
		if s.LastPostTitle == "" {
			s.LastPostTitle = s.RecentPosts[0].Title
		}
	}
}
