package domain

// User is a library member.
// Password is write-only: the backend may echo it, but the console never displays it.
type User struct {
	ID             string `json:"user_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	MembershipDate string `json:"membership_date"`
}

// UserInput is the create payload for POST /users.
type UserInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	MembershipDate string `json:"membership_date"`
}

// Validate checks the fields the create form marks as required.
func (in UserInput) Validate() error {
	return required(
		field{"name", in.Name},
		field{"email", in.Email},
		field{"password", in.Password},
		field{"membership_date", in.MembershipDate},
	)
}

// UserUpdate is the payload for PUT /users/{id}.
// An empty Password is omitted so the stored one is left alone.
type UserUpdate struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	MembershipDate string `json:"membership_date,omitempty"`
}

// Validate checks the fields the edit form marks as required.
// The password is optional when editing.
func (in UserUpdate) Validate() error {
	return required(
		field{"name", in.Name},
		field{"email", in.Email},
	)
}

// EditForm seeds an edit form from an existing user. The password starts blank.
func (u User) EditForm() UserInput {
	return UserInput{
		Name:           u.Name,
		Email:          u.Email,
		MembershipDate: DateOnly(u.MembershipDate),
	}
}

// Update converts a submitted form into the update payload.
func (in UserInput) Update() UserUpdate {
	return UserUpdate(in)
}
