package user

// Profile is the learner-facing account view. Password hashes never leave
// the store layer.
type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	StudyProgram string `json:"studyProgram,omitempty"`
	Speciality   string `json:"speciality,omitempty"`
	WorkPlace    string `json:"workPlace,omitempty"`
	University   string `json:"university,omitempty"`
	Promotion    string `json:"promotion,omitempty"`
	Image        string `json:"image,omitempty"`
	IsPremium    bool   `json:"isPremium"`
	CreatedAt    int64  `json:"createdAt"`
}

// ProfileUpdate carries a partial edit; nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string `json:"name"`
	StudyProgram *string `json:"studyProgram"`
	Speciality   *string `json:"speciality"`
	WorkPlace    *string `json:"workPlace"`
	University   *string `json:"university"`
	Promotion    *string `json:"promotion"`
	Image        *string `json:"image"`
}

// Stats is a learner's aggregate performance. Grade is the average test
// percentage mapped onto a 0-10 scale, rendered with two decimals.
type Stats struct {
	Grade          string `json:"grade"`
	TestsTaken     int    `json:"testsTaken"`
	TestsCompleted int    `json:"testsCompleted"`
}

// Rank is one leaderboard row.
type Rank struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Image  string `json:"image,omitempty"`
	Grade  string `json:"grade"`
}

// RankRow is the raw leaderboard aggregate before grade formatting.
type RankRow struct {
	UserID string
	Name   string
	Image  string
	Avg    float64 // average completed-test percentage
}
