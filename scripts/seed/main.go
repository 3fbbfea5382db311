// Package main implements a standalone seed script that populates a running
// catalog service with realistic demo data through its HTTP API: a set of
// products, a spread of reviews from distinct users, and optionally one
// marketplace sync run.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
)

// --------------------------------------------------------------------------
// Configuration helpers
// --------------------------------------------------------------------------

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --------------------------------------------------------------------------
// HTTP helpers
// --------------------------------------------------------------------------

func httpPost(url, userID string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

// --------------------------------------------------------------------------
// Seed data definitions
// --------------------------------------------------------------------------

type productDef struct {
	name        string
	description string
	brand       string
	category    string
	price       int64 // minor units
	stock       int
}

var products = []productDef{
	// Electronics
	{"Wireless Noise Cancelling Headphones", "Premium over-ear headphones with 30-hour battery life and adaptive noise cancellation.", "Sony", "electronics", 2499900, 40},
	{"Smartphone 128GB Midnight", "6.1-inch OLED display, dual camera system, all-day battery.", "Apple", "electronics", 6999900, 25},
	{"Mechanical Keyboard TKL", "Tenkeyless mechanical keyboard with hot-swappable switches and RGB backlight.", "Keychron", "electronics", 749900, 60},
	{"27-inch 4K Monitor", "IPS panel with 99% sRGB coverage, USB-C power delivery, and height-adjustable stand.", "Dell", "electronics", 3299900, 15},
	{"Mirrorless Camera Kit", "24MP APS-C mirrorless camera with 18-55mm kit lens and in-body stabilisation.", "Canon", "electronics", 5899900, 8},
	{"Portable Bluetooth Speaker", "Waterproof speaker with 360-degree sound and 12-hour playtime.", "Sony", "electronics", 899900, 80},
	// Fashion
	{"Classic Leather Sneakers", "Minimal white leather sneakers with cushioned insole and stitched sole.", "Nike", "fashion", 649900, 120},
	{"Running Shoes Pegasus", "Lightweight trainers with responsive foam and breathable mesh upper.", "Nike", "fashion", 999900, 90},
	{"Track Jacket Retro", "Regular-fit track jacket with contrast stripes and zip pockets.", "Adidas", "fashion", 449900, 70},
	{"Chronograph Watch Steel", "Stainless steel chronograph with sapphire glass and 5ATM water resistance.", "Fossil", "fashion", 1299900, 35},
	// Home
	{"Espresso Machine 15 Bar", "Compact espresso maker with milk frother and 1.1L removable tank.", "Generic", "home", 1599900, 20},
	{"Robot Vacuum Cleaner", "Laser-guided robot vacuum with app control and self-docking.", "Generic", "home", 2799900, 12},
	{"Air Fryer 5.5L", "Family-size air fryer with eight presets and dishwasher-safe basket.", "Generic", "home", 1099900, 45},
	// Computing
	{"14-inch Ultrabook", "1.2kg laptop with 16GB RAM, 512GB SSD, and 14-hour battery life.", "Lenovo", "computing", 8499900, 18},
	{"Gaming Laptop RTX", "15.6-inch 165Hz display with dedicated graphics and per-key RGB.", "HP", "computing", 12999900, 10},
	{"USB-C Dock 11-in-1", "Dual HDMI output, gigabit ethernet, SD reader, and 100W passthrough.", "Lenovo", "computing", 599900, 55},
}

type reviewDef struct {
	userName string
	rating   int
	comment  string
}

var reviewPool = []reviewDef{
	{"Priya", 5, "Exceeded expectations, would buy again."},
	{"Marco", 4, "Solid build quality, minor quibbles with the packaging."},
	{"Aisha", 5, "Exactly as described and arrived early."},
	{"Tom", 3, "Does the job but feels a bit overpriced."},
	{"Elena", 4, "Great value for the price point."},
	{"Kenji", 5, "Best purchase I've made this year."},
	{"Sara", 2, "Worked fine for a week, then started acting up."},
	{"David", 4, "Happy with it overall, shipping was slow though."},
}

// --------------------------------------------------------------------------
// main
// --------------------------------------------------------------------------

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[seed] ")

	catalogURL := getEnv("CATALOG_URL", "http://localhost:8080")
	ownerID := getEnv("SEED_USER_ID", "11111111-1111-4111-8111-111111111111")
	syncSource := getEnv("SEED_SYNC_SOURCE", "fakestore")

	productURL := catalogURL + "/api/v1/products"
	rng := rand.New(rand.NewSource(42)) // deterministic seed

	// ---------------------------------------------------------------
	// 1. Seed products via HTTP
	// ---------------------------------------------------------------
	log.Printf("Seeding %d products via %s ...", len(products), productURL)

	var createdIDs []string
	for _, p := range products {
		body := map[string]any{
			"name":        p.name,
			"description": p.description,
			"brand":       p.brand,
			"category":    p.category,
			"price":       p.price,
			"stock":       p.stock,
		}

		resp, err := httpPost(productURL, ownerID, body)
		if err != nil {
			log.Printf("  WARNING: create product %q: %v", p.name, err)
			continue
		}

		var productID string
		if data, ok := resp["data"].(map[string]any); ok {
			if id, ok := data["id"].(string); ok {
				productID = id
			}
		}
		if productID == "" {
			log.Printf("  WARNING: no product ID in response for %q", p.name)
			continue
		}

		createdIDs = append(createdIDs, productID)
		log.Printf("  Product: %s (id=%s)", p.name, productID)
	}

	// ---------------------------------------------------------------
	// 2. Seed reviews via HTTP (each from a distinct user)
	// ---------------------------------------------------------------
	log.Println("Seeding reviews...")
	reviewCount := 0
	for _, id := range createdIDs {
		n := 1 + rng.Intn(4) // 1-4 reviews per product
		for j := 0; j < n; j++ {
			r := reviewPool[(reviewCount+j)%len(reviewPool)]
			// A user may review a product only once, so every review gets its
			// own reviewer ID.
			reviewerID := fmt.Sprintf("22222222-2222-4222-8222-%012d", reviewCount+j+1)

			body := map[string]any{
				"rating":    r.rating,
				"user_name": r.userName,
				"comment":   r.comment,
			}
			if _, err := httpPost(productURL+"/"+id+"/reviews", reviewerID, body); err != nil {
				log.Printf("  WARNING: review for %s: %v", id, err)
				continue
			}
		}
		reviewCount += n
	}
	log.Printf("  Seeded %d reviews.", reviewCount)

	// ---------------------------------------------------------------
	// 3. Trigger one marketplace sync (optional)
	// ---------------------------------------------------------------
	if syncSource != "" {
		log.Printf("Triggering marketplace sync from %q...", syncSource)
		syncBody := map[string]any{
			"source": syncSource,
			"limit":  10,
		}
		resp, err := httpPost(productURL+"/sync", ownerID, syncBody)
		if err != nil {
			log.Printf("  WARNING: sync: %v", err)
		} else if data, ok := resp["data"].(map[string]any); ok {
			log.Printf("  Sync result: fetched=%v imported=%v skipped=%v",
				data["fetched"], data["imported"], data["skipped"])
		}
	}

	// ---------------------------------------------------------------
	// Done
	// ---------------------------------------------------------------
	log.Printf("Seed complete! Created %d products with reviews.", len(createdIDs))
}
