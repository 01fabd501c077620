package domain

import "time"

// SurveyResponse is the one-time research survey users fill in between
// profile completion and onboarding. Fourteen Likert items (1-5) plus
// two short answers.
type SurveyResponse struct {
	ID     int `json:"id" db:"id"`
	UserID int `json:"user_id" db:"user_id"`

	Q1StudyAlone              int `json:"q1_study_alone" db:"q1_study_alone"`
	Q2EnjoyStudyingWithOthers int `json:"q2_enjoy_studying_with_others" db:"q2_enjoy_studying_with_others"`
	Q3EasilyFindStudyBuddy    int `json:"q3_easily_find_study_buddy" db:"q3_easily_find_study_buddy"`
	Q4WishMorePeople          int `json:"q4_wish_more_people" db:"q4_wish_more_people"`
	Q5CoordinatingBarrier     int `json:"q5_coordinating_barrier" db:"q5_coordinating_barrier"`
	Q6WorryAwkward            int `json:"q6_worry_awkward" db:"q6_worry_awkward"`
	Q7ComfortableApproaching  int `json:"q7_comfortable_approaching" db:"q7_comfortable_approaching"`
	Q8ComfortableOnline       int `json:"q8_comfortable_online_platforms" db:"q8_comfortable_online_platforms"`
	Q9AvoidAskingAfraidNo     int `json:"q9_avoid_asking_afraid_no" db:"q9_avoid_asking_afraid_no"`
	Q10FeelAtEase             int `json:"q10_feel_at_ease" db:"q10_feel_at_ease"`
	Q11PressureKeepStudying   int `json:"q11_pressure_keep_studying" db:"q11_pressure_keep_studying"`
	Q12FeelBelong             int `json:"q12_feel_belong" db:"q12_feel_belong"`
	Q13CoreGroupPeers         int `json:"q13_core_group_peers" db:"q13_core_group_peers"`
	Q14StudentsOpenCollab     int `json:"q14_students_open_collaborating" db:"q14_students_open_collaborating"`

	Q15HardestPart   string `json:"q15_hardest_part" db:"q15_hardest_part"`
	Q16BadExperience string `json:"q16_bad_experience" db:"q16_bad_experience"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}
