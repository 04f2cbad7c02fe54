package service

import "github.com/kevinaaaquil/bookstore/models"

// DefaultCatalog is inserted on first startup when the catalog is empty.
func DefaultCatalog() []models.Book {
	return []models.Book{
		{ISBN: "978-0-141-43951-8", Title: "1984", Author: "George Orwell", Price: 16.99, ImageURL: "/book_imgs/1984.jpg"},
		{ISBN: "978-0-544-27299-6", Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: 21.99, ImageURL: "/book_imgs/hobbit.jpg"},
		{ISBN: "978-0-375-70667-7", Title: "No Country for Old Men", Author: "Cormac McCarthy", Price: 15.99, ImageURL: "/book_imgs/no country.jpg"},
		{ISBN: "978-0-307-74365-9", Title: "The Stand", Author: "Stephen King", Price: 18.99, ImageURL: "/book_imgs/the stand.jpg"},
		{ISBN: "978-0-7653-7654-2", Title: "Dune", Author: "Frank Herbert", Price: 19.99, ImageURL: "/book_imgs/dune.jpg"},
		{ISBN: "978-0-143-03943-3", Title: "The Grapes of Wrath", Author: "John Steinbeck", Price: 17.99, ImageURL: "/book_imgs/grapes.jpg"},
		{ISBN: "978-0-062-31609-6", Title: "The Martian", Author: "Andy Weir", Price: 14.99, ImageURL: "/book_imgs/martian.jpg"},
	}
}

// SampleBooks and SampleUsers are loaded by the seed command.
func SampleBooks() []models.Book {
	return []models.Book{
		{ISBN: "978-0-13-468599-1", Title: "Clean Code", Author: "Robert C. Martin", Price: 42.99},
		{ISBN: "978-0-135-95705-9", Title: "The Pragmatic Programmer", Author: "David Thomas, Andrew Hunt", Price: 49.99},
		{ISBN: "978-0-596-52068-7", Title: "JavaScript: The Good Parts", Author: "Douglas Crockford", Price: 29.99},
		{ISBN: "978-1-449-33558-8", Title: "Learning JavaScript Design Patterns", Author: "Addy Osmani", Price: 34.99},
		{ISBN: "978-0-201-63361-0", Title: "Design Patterns", Author: "Erich Gamma, Richard Helm", Price: 54.99},
	}
}

type SampleUser struct {
	Name, Email, Password, Type string
}

func SampleUsers() []SampleUser {
	return []SampleUser{
		{Name: "Test User", Email: "test@example.com", Password: "password123", Type: models.TypeGuest},
		{Name: "Admin User", Email: "admin@example.com", Password: "admin123", Type: models.TypeAdmin},
	}
}
