// Command seed populates the store with deterministic sample data so the
// dashboard has something to show on a fresh install.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"analytics-service/internal/model"
	"analytics-service/pkg/config"
	"analytics-service/pkg/database"
)

const seedRandSource = 42

func main() {
	force := flag.Bool("force", false, "Re-seed even if data exists")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load("analytics-service")
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	db := database.GetDB()

	var customerCount int64
	if err := db.Model(&model.Customer{}).Count(&customerCount).Error; err != nil {
		log.Fatal("Failed to inspect existing data: ", err)
	}
	if customerCount > 0 && !*force {
		fmt.Println("Data already present, use -force to re-seed")
		return
	}
	if *force {
		// Reverse dependency order.
		for _, table := range []string{
			"review_replies", "reviews", "cart_abandonment",
			"purchase_details", "purchases", "sessions",
			"products", "suppliers", "customers", "users",
		} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				log.Fatal("Failed to clear table ", table, ": ", err)
			}
		}
	}

	if err := seed(db); err != nil {
		log.Fatal("Seeding failed: ", err)
	}
	fmt.Println("Seeding complete")
}

func seed(db *gorm.DB) error {
	rng := rand.New(rand.NewSource(seedRandSource))
	now := time.Now()

	genders := []string{"male", "female"}
	locations := []string{"Seattle", "Portland", "Denver", "Austin", "Chicago"}
	categories := []string{"Electronics", "Clothing", "Home", "Books", "Sports"}
	seasons := []string{"all", "summer", "winter"}

	suppliers := make([]model.Supplier, 5)
	for i := range suppliers {
		suppliers[i] = model.Supplier{
			SupplierID:       fmt.Sprintf("S%03d", i+1),
			Name:             fmt.Sprintf("Supplier %d", i+1),
			Contact:          fmt.Sprintf("supplier%d@example.com", i+1),
			PerformanceScore: 2.5 + rng.Float64()*2.5,
		}
	}
	if err := db.Create(&suppliers).Error; err != nil {
		return err
	}

	products := make([]model.Product, 40)
	for i := range products {
		discount := 0.0
		if rng.Float64() < 0.4 {
			discount = float64(rng.Intn(30)+1) / 100
		}
		products[i] = model.Product{
			ProductID:   fmt.Sprintf("P%03d", i+1),
			Name:        fmt.Sprintf("Product %d", i+1),
			Category:    categories[i%len(categories)],
			Price:       10 + rng.Float64()*190,
			Discount:    discount,
			Tax:         0.08,
			StockLevel:  rng.Intn(120),
			SupplierID:  suppliers[i%len(suppliers)].SupplierID,
			Seasonality: seasons[rng.Intn(len(seasons))],
			Popularity:  rng.Intn(100),
		}
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	customers := make([]model.Customer, 60)
	for i := range customers {
		age := 18 + rng.Intn(52)
		customers[i] = model.Customer{
			CustomerID: fmt.Sprintf("C%03d", i+1),
			Age:        age,
			AgeGroup:   ageGroup(age),
			Gender:     genders[i%len(genders)],
			Location:   locations[i%len(locations)],
		}
	}
	if err := db.Create(&customers).Error; err != nil {
		return err
	}

	var sessions []model.Session
	var purchases []model.Purchase
	var details []model.PurchaseDetail
	var abandonments []model.CartAbandonment
	for i := 0; i < 300; i++ {
		customer := customers[rng.Intn(len(customers))]
		date := now.AddDate(0, 0, -rng.Intn(90)).Format("2006-01-02")
		clock := fmt.Sprintf("%02d:%02d:00", 8+rng.Intn(14), rng.Intn(60))
		session := model.Session{
			SessionID:  fmt.Sprintf("SES%04d", i+1),
			Date:       date,
			Time:       clock,
			DeviceID:   fmt.Sprintf("DEV%04d", rng.Intn(150)+1),
			DeviceType: []string{"desktop", "mobile", "tablet"}[rng.Intn(3)],
			OS:         []string{"windows", "macos", "android", "ios"}[rng.Intn(4)],
			CustomerID: customer.CustomerID,
		}
		sessions = append(sessions, session)

		switch {
		case rng.Float64() < 0.45:
			purchase := model.Purchase{
				PurchaseID: fmt.Sprintf("PUR%04d", i+1),
				CustomerID: customer.CustomerID,
				SessionID:  session.SessionID,
				Date:       date,
				Time:       clock,
			}
			purchases = append(purchases, purchase)
			for n := 0; n < 1+rng.Intn(3); n++ {
				details = append(details, model.PurchaseDetail{
					PurchaseID:     purchase.PurchaseID,
					ProductID:      products[rng.Intn(len(products))].ProductID,
					Quantity:       1 + rng.Intn(4),
					ShippingCost:   float64(rng.Intn(15)),
					ShippingMethod: []string{"standard", "express"}[rng.Intn(2)],
				})
			}
		case rng.Float64() < 0.5:
			abandonments = append(abandonments, model.CartAbandonment{
				SessionID:       session.SessionID,
				ProductID:       products[rng.Intn(len(products))].ProductID,
				Quantity:        1 + rng.Intn(3),
				AbandonmentTime: 30 + rng.Intn(3600),
				Date:            date,
			})
		}
	}
	for _, batch := range []struct {
		rows interface{}
		n    int
	}{
		{&sessions, len(sessions)},
		{&purchases, len(purchases)},
		{&details, len(details)},
		{&abandonments, len(abandonments)},
	} {
		if batch.n == 0 {
			continue
		}
		if err := db.Create(batch.rows).Error; err != nil {
			return err
		}
	}

	phrases := []string{
		"great quality and fast shipping would buy again",
		"product broke after a week very disappointed",
		"decent value for the price nothing special",
		"excellent build quality exceeded my expectations",
		"arrived late and packaging was damaged",
		"works exactly as described very happy",
		"battery life is terrible and support was unhelpful",
		"comfortable fit and great material highly recommend",
	}
	var reviews []model.Review
	var replies []model.ReviewReply
	for i := 0; i < 120; i++ {
		score := 1 + rng.Intn(5)
		review := model.Review{
			ReviewID:      fmt.Sprintf("R%04d", i+1),
			ProductID:     products[rng.Intn(len(products))].ProductID,
			CustomerID:    customers[rng.Intn(len(customers))].CustomerID,
			Content:       phrases[rng.Intn(len(phrases))],
			Score:         score,
			ThumbsUpCount: rng.Intn(50),
			ReviewedAt:    now.AddDate(0, 0, -rng.Intn(90)).Format("2006-01-02 15:04:05"),
		}
		reviews = append(reviews, review)
		if score <= 3 && rng.Float64() < 0.5 {
			replies = append(replies, model.ReviewReply{
				ReviewID:  review.ReviewID,
				Content:   "Sorry to hear that, our support team will reach out.",
				RepliedAt: now.AddDate(0, 0, -rng.Intn(30)).Format("2006-01-02 15:04:05"),
			})
		}
	}
	if err := db.Create(&reviews).Error; err != nil {
		return err
	}
	if len(replies) > 0 {
		if err := db.Create(&replies).Error; err != nil {
			return err
		}
	}

	return seedUsers(db)
}

func ageGroup(age int) string {
	switch {
	case age <= 25:
		return "18-25"
	case age <= 35:
		return "26-35"
	case age <= 45:
		return "36-45"
	case age <= 55:
		return "46-55"
	default:
		return "56+"
	}
}

func seedUsers(db *gorm.DB) error {
	accounts := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", "admin"},
		{"analyst", "analyst123", "analyst"},
		{"manager", "manager123", "manager"},
	}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := model.SystemUser{
			Username:     a.username,
			PasswordHash: string(hash),
			Role:         a.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
