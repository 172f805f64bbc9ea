// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"otomo/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var (
	displayNames = []string{
		"ごはん大好き太郎", "おかず番長", "白米一筋", "梅干しマニア", "明太子の民",
		"海苔の佃煮係", "ふりかけ収集家", "納豆は夜に限る", "卵かけご飯職人", "塩辛ひとすじ",
		"漬物部部長", "おにぎり研究所", "土鍋で炊く人", "新米ハンター", "昆布のうまみ",
		"鮭フレーク王", "味噌汁のおとも", "ちりめん山椒", "ご飯が進むくん", "大盛り注意報",
	}

	dishNames = []string{
		"辛子明太子", "梅干し", "海苔の佃煮", "いかの塩辛", "鮭フレーク",
		"ちりめん山椒", "高菜漬け", "いぶりがっこ", "なめ茸", "牛しぐれ煮",
		"食べるラー油", "きゃらぶき", "松前漬け", "ザーサイ", "しらすの沖漬け",
		"鶏そぼろ", "たくあん", "柚子胡椒味噌", "かつおでんぶ", "山うにとうふ",
	}

	dishQualifiers = []string{
		"ご飯が止まらない", "老舗の", "無添加の", "ピリ辛", "昔ながらの",
		"ちょっと贅沢な", "お取り寄せ", "ご当地", "食べきりサイズの", "大容量",
	}

	descriptionLines = []string{
		"白いご飯に乗せるだけで何杯でもいけます。",
		"少し値は張りますが、それだけの価値があります。",
		"お酒のつまみにもなる万能選手です。",
		"冷蔵庫に常備しておきたい一品。",
		"贈り物にも喜ばれました。",
		"塩気がちょうどよくて朝食にぴったりです。",
		"炊きたてのご飯との相性が最高です。",
		"リピート確定のおいしさでした。",
		"お茶漬けにしてもおいしいです。",
		"一度食べたら忘れられない味です。",
	}

	commentLines = []string{
		"これ気になってました!今度買ってみます。",
		"うちの定番です。間違いないですよね。",
		"ご飯何杯でもいけそう…",
		"お取り寄せしてみました。最高でした!",
		"お酒のあてにも良さそうですね。",
		"近所のスーパーにも置いてほしい!",
		"写真だけでご飯が食べたくなります。",
		"明日の朝ごはんはこれに決めました。",
	}

	shopCodes = []string{
		"hakata-mentai", "kishu-ume", "ariake-nori", "hokkaido-gourmet", "kyoto-tsukemono",
		"tohoku-bussan", "kyushu-honpo", "shokuraku-ichiba", "umaimono-dori", "gohan-club",
	}
)

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	numComments, err := createComments(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", numComments)

	numLikes, err := createLikes(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", numLikes)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func generateTitle(r *rand.Rand) string {
	dish := dishNames[r.Intn(len(dishNames))]
	if r.Float32() < 0.5 {
		return dishQualifiers[r.Intn(len(dishQualifiers))] + dish
	}
	return dish
}

func generateDescription(r *rand.Rand) string {
	lines := r.Intn(2) + 1
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		sb.WriteString(descriptionLines[r.Intn(len(descriptionLines))])
	}
	return sb.String()
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	f := NewFactory(db)
	users := make([]models.User, 0, count)

	// Always include a known login for local development
	if count >= 1 {
		user, err := f.CreateUser(func(u *models.User) {
			u.DisplayName = "おとも管理人"
			u.Email = "admin@example.com"
		})
		if err == nil {
			users = append(users, *user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %s: %v", user.DisplayName, err)
			continue
		}
		users = append(users, *user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	f := NewFactory(db)
	posts := make([]models.Post, 0, count)

	for i := 0; i < count; i++ {
		user := users[f.r.Intn(len(users))]
		post, err := f.CreatePost(&user)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

func createComments(db *gorm.DB, users []models.User, posts []models.Post) (int, error) {
	f := NewFactory(db)
	created := 0

	for _, post := range posts {
		for i := 0; i < f.r.Intn(4); i++ {
			user := users[f.r.Intn(len(users))]
			comment := models.Comment{
				Content: commentLines[f.r.Intn(len(commentLines))],
				UserID:  user.ID,
				PostID:  post.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

func createLikes(db *gorm.DB, users []models.User, posts []models.Post) (int, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0

	for _, post := range posts {
		// pick a random subset of users; the unique user/post index keeps
		// the data honest even if the shuffle repeats
		perm := r.Perm(len(users))
		n := r.Intn(len(users) + 1)
		for _, idx := range perm[:n] {
			like := models.Like{UserID: users[idx].ID, PostID: post.ID}
			if err := db.Create(&like).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}
