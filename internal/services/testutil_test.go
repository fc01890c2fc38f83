package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/littlerefugees/shelter-backend/internal/config"
	"github.com/littlerefugees/shelter-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive for the test.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Shelter{},
		&models.Animal{},
		&models.Photo{},
		&models.AdoptionRequest{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string, shelterID *uuid.UUID, owner bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		ID:           uuid.New(),
		FullName:     "Test " + email,
		Email:        email,
		Password:     string(hash),
		Role:         role,
		IsAdminOwner: owner,
		ShelterID:    shelterID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedShelter(t *testing.T, db *gorm.DB, name string) *models.Shelter {
	t.Helper()

	shelter := models.Shelter{
		ID:      uuid.New(),
		Name:    name,
		Email:   name + "@shelter.test",
		Address: name + " street 1",
	}
	if err := db.Create(&shelter).Error; err != nil {
		t.Fatalf("seed shelter: %v", err)
	}
	return &shelter
}

func seedAnimal(t *testing.T, db *gorm.DB, shelterID uuid.UUID, name string, adopted bool) *models.Animal {
	t.Helper()

	animal := models.Animal{
		ID:        uuid.New(),
		ShelterID: shelterID,
		Name:      name,
		Species:   "dog",
		Breed:     "mixed",
		Gender:    "male",
		Adopted:   adopted,
	}
	if err := db.Create(&animal).Error; err != nil {
		t.Fatalf("seed animal: %v", err)
	}
	return &animal
}

func seedRequest(t *testing.T, db *gorm.DB, userID, animalID uuid.UUID, status string) *models.AdoptionRequest {
	t.Helper()

	request := models.AdoptionRequest{
		ID:       uuid.New(),
		UserID:   userID,
		AnimalID: animalID,
		Status:   status,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("seed adoption request: %v", err)
	}
	return &request
}

// fakeStore records object storage calls instead of talking to MinIO.
type fakeStore struct {
	mu       sync.Mutex
	puts     []string
	deletes  []string
	prefixes []string
	putErr   error
}

func (f *fakeStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.puts = append(f.puts, key)
	return "http://store.test/photos/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeStore) RemovePrefix(_ context.Context, prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes = append(f.prefixes, prefix)
}

// fakeMailer records outbound notification mail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Subject: subject})
	return nil
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("photos", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form writer: %v", err)
	}

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	return form.File["photos"][0]
}
