package seed

import (
	"fmt"
	"math/rand"
	"time"

	"otomo/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the plaintext password every seeded user gets, so that
// any seeded account can be used to log in during development.
const SeedPassword = "password123"

// seedPasswordHash is computed once; bcrypt at default cost is slow enough
// that hashing per user dominates seeding time otherwise.
var seedPasswordHash = func() string {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	return string(hashed)
}()

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := displayNames[f.r.Intn(len(displayNames))]
	// display names are unique, so suffix a number to avoid collisions
	user := &models.User{
		DisplayName:   fmt.Sprintf("%s%d", name, gofakeit.Number(10, 9999)),
		Email:         gofakeit.Email(),
		Password:      seedPasswordHash,
		Bio:           descriptionLines[f.r.Intn(len(descriptionLines))],
		AvatarURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		FavoriteFoods: dishNames[f.r.Intn(len(dishNames))],
		DislikedFoods: dishNames[f.r.Intn(len(dishNames))],
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return user, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample `models.Post` for the given
// author. Roughly half the posts carry a Rakuten item link and most carry
// a product image, mirroring what real submissions look like.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:       generateTitle(f.r),
		Description: generateDescription(f.r),
		UserID:      user.ID,
	}

	if f.r.Float32() < 0.5 {
		shop := shopCodes[f.r.Intn(len(shopCodes))]
		post.Link = fmt.Sprintf("https://item.rakuten.co.jp/%s/item-%04d/", shop, f.r.Intn(10000))
	}
	if f.r.Float32() < 0.7 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/400/400", gofakeit.UUID())
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return post, err
	}
	return post, nil
}
