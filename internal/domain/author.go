package domain

// Author is a book author. Authors and books are many-to-many.
type Author struct {
	ID          string `json:"author_id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Birthdate   string `json:"birthdate"`
}

// AuthorInput is the create payload for POST /authors.
type AuthorInput struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Birthdate   string `json:"birthdate"`
}

// Validate checks the fields the author form marks as required.
func (in AuthorInput) Validate() error {
	return required(
		field{"name", in.Name},
		field{"nationality", in.Nationality},
		field{"birthdate", in.Birthdate},
	)
}

// AuthorUpdate is the payload for PUT /authors/{id}.
type AuthorUpdate struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Birthdate   string `json:"birthdate,omitempty"`
}

// Validate checks the fields the author form marks as required.
func (in AuthorUpdate) Validate() error {
	return required(
		field{"name", in.Name},
		field{"nationality", in.Nationality},
	)
}

// Update converts a submitted form into the update payload.
func (in AuthorInput) Update() AuthorUpdate {
	return AuthorUpdate(in)
}

// EditForm seeds an edit form from an existing author.
func (a Author) EditForm() AuthorInput {
	return AuthorInput{
		Name:        a.Name,
		Nationality: a.Nationality,
		Birthdate:   DateOnly(a.Birthdate),
	}
}
