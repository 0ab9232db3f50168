package domain

import "time"

// PersonalAnswer is one entry of a profile's getting-to-know-you answers.
type PersonalAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Profile represents a user's profile as stored. The ID is the external
// auth identity and is never generated by this server.
type Profile struct {
	ID              string           `json:"id"`
	Username        string           `json:"username"`
	Email           string           `json:"email,omitempty"`
	Age             string           `json:"age,omitempty"`
	Birthday        string           `json:"birthday,omitempty"`
	Bio             string           `json:"bio,omitempty"`
	ProfilePicture  string           `json:"profile_picture,omitempty"`
	Interests       []string         `json:"interests,omitempty"`
	Hobbies         []string         `json:"hobbies,omitempty"`
	PersonalAnswers []PersonalAnswer `json:"personal_answers,omitempty"`
	QuestionTime    string           `json:"question_time,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
