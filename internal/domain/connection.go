package domain

import "time"

// ReachOut records one user contacting another by email to set up a
// study session. It doubles as the connection record that a later rating
// refers to.
type ReachOut struct {
	ID              int       `json:"id" db:"id"`
	SenderID        int       `json:"sender_id" db:"sender_id"`
	RecipientID     int       `json:"recipient_id" db:"recipient_id"`
	PersonalMessage *string   `json:"personal_message" db:"personal_message"`
	Met             *bool     `json:"met" db:"met"` // nil = not answered yet
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

func (r *ReachOut) HasParticipant(userID int) bool {
	return r.SenderID == userID || r.RecipientID == userID
}

// OtherParticipant returns the participant that isn't userID. The second
// return is false when userID is not part of the connection at all.
func (r *ReachOut) OtherParticipant(userID int) (int, bool) {
	switch userID {
	case r.SenderID:
		return r.RecipientID, true
	case r.RecipientID:
		return r.SenderID, true
	}
	return 0, false
}

// Rating is one post-session peer review: three criteria drawn from the
// catalog, each scored 1-5. Ratings are immutable once created; "already
// rated" is enforced by uniqueness of (rater, reach-out).
type Rating struct {
	ID          int    `json:"id" db:"id"`
	RaterID     int    `json:"rater_id" db:"rater_id"`
	RatedUserID int    `json:"rated_user_id" db:"rated_user_id"`
	ReachOutID  int    `json:"reach_out_id" db:"reach_out_id"`
	Criterion1  string `json:"criterion_1" db:"criterion_1"`
	Rating1     int    `json:"rating_1" db:"rating_1"`
	Criterion2  string `json:"criterion_2" db:"criterion_2"`
	Rating2     int    `json:"rating_2" db:"rating_2"`
	Criterion3  string `json:"criterion_3" db:"criterion_3"`
	Rating3     int    `json:"rating_3" db:"rating_3"`

	ReflectionNote *string   `json:"reflection_note" db:"reflection_note"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (r *Rating) Scores() [3]int {
	return [3]int{r.Rating1, r.Rating2, r.Rating3}
}

// UserNote is a private reflection note saved alongside a rating.
type UserNote struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	NoteText  string    `json:"note_text" db:"note_text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
