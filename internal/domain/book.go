package domain

import "fmt"

// Book is a catalog title. Stock is the number of copies available to lend.
type Book struct {
	ID            string   `json:"book_id"`
	Title         string   `json:"title"`
	ISBN          string   `json:"isbn"`
	Publisher     string   `json:"publisher"`
	YearPublished string   `json:"year_published"`
	Stock         int      `json:"stock"`
	Authors       []Author `json:"authors,omitempty"`
}

// AuthorIDs returns the ids of the book's authors in order.
func (b Book) AuthorIDs() []string {
	ids := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}

// AuthorNames returns the names of the book's authors in order.
func (b Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return names
}

// BookInput is the create payload for POST /books.
type BookInput struct {
	Title         string   `json:"title"`
	ISBN          string   `json:"isbn"`
	Publisher     string   `json:"publisher"`
	YearPublished string   `json:"year_published"`
	Stock         int      `json:"stock"`
	AuthorIDs     []string `json:"author_ids"`
}

// Validate checks the fields the book form marks as required.
func (in BookInput) Validate() error {
	if err := required(
		field{"title", in.Title},
		field{"isbn", in.ISBN},
		field{"year_published", in.YearPublished},
		field{"publisher", in.Publisher},
	); err != nil {
		return err
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	return nil
}

// BookUpdate is the payload for PUT /books/{id}. Nil fields are not sent.
type BookUpdate struct {
	Title         *string   `json:"title,omitempty"`
	ISBN          *string   `json:"isbn,omitempty"`
	Publisher     *string   `json:"publisher,omitempty"`
	YearPublished *string   `json:"year_published,omitempty"`
	Stock         *int      `json:"stock,omitempty"`
	AuthorIDs     *[]string `json:"author_ids,omitempty"`
}

// Update converts a submitted form into an update that sets every field,
// which is what the edit form does.
func (in BookInput) Update() BookUpdate {
	ids := in.AuthorIDs
	if ids == nil {
		ids = []string{}
	}
	return BookUpdate{
		Title:         &in.Title,
		ISBN:          &in.ISBN,
		Publisher:     &in.Publisher,
		YearPublished: &in.YearPublished,
		Stock:         &in.Stock,
		AuthorIDs:     &ids,
	}
}

// EditForm seeds an edit form from an existing book, preselecting its authors.
func (b Book) EditForm() BookInput {
	return BookInput{
		Title:         b.Title,
		ISBN:          b.ISBN,
		Publisher:     b.Publisher,
		YearPublished: b.YearPublished,
		Stock:         b.Stock,
		AuthorIDs:     b.AuthorIDs(),
	}
}

// InStock returns the books that have at least one copy to lend.
// The input order is preserved.
func InStock(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.Stock > 0 {
			out = append(out, b)
		}
	}
	return out
}
