package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/anshvert/Book-Review/models"
	"github.com/anshvert/Book-Review/storage"
)

// Seeds the catalog with a handful of books. Safe to run repeatedly;
// already-seeded titles are skipped.
func main() {
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()

	books := []models.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction"},
		{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery"},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance"},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
	}

	for _, book := range books {
		var existing models.Book
		res := storage.DB.Where("title = ? AND author = ?", book.Title, book.Author).Limit(1).Find(&existing)
		if res.Error != nil {
			log.Fatalf("Error seeding books: %v", res.Error)
		}
		if res.RowsAffected > 0 {
			continue
		}
		if err := storage.DB.Create(&book).Error; err != nil {
			log.Fatalf("Error seeding books: %v", err)
		}
	}

	fmt.Println("Catalog seeding completed successfully!")
}
