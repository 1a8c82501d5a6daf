// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email, password, role string
}

type seedItem struct {
	title, slug, status string
	body, excerpt       string
}

var seedUsers = []seedUser{
	{email: "admin@example.com", password: "admin123", role: "admin"},
	{email: "editor@example.com", password: "editor123", role: "editor"},
}

var seedItems = []seedItem{
	{
		title:   "Welcome to AI-Native CMS",
		slug:    "welcome-to-ai-native-cms",
		status:  "published",
		body:    "Welcome to our AI-Native CMS! This platform combines traditional content management with AI capabilities to help you create, manage, and optimize your content more efficiently.\n\nWith features like AI-powered content generation, SEO optimization, and alt text suggestions, you can accelerate your content workflow while maintaining high quality.",
		excerpt: "Discover the future of content management with AI-powered features.",
	},
	{
		title:   "Getting Started Guide",
		slug:    "getting-started-guide",
		status:  "draft",
		body:    "## Getting Started with the CMS\n\nThis guide will help you get started with creating and managing content.\n\n### Creating Your First Article\n\n1. Navigate to the content section\n2. Click \"New Article\"\n3. Fill in the title and content\n4. Save as draft or publish immediately",
		excerpt: "Learn how to use the CMS effectively with this comprehensive guide.",
	},
	{
		title:   "AI Features Overview",
		slug:    "ai-features-overview",
		status:  "published",
		body:    "Our AI-powered features are designed to streamline your content creation process:\n\n- **Content Generation**: create drafts automatically based on your topic\n- **SEO Optimization**: generate meta descriptions and keywords\n- **Alt Text Generation**: create descriptive alt text for images",
		excerpt: "Explore the AI-powered features that make content creation faster and smarter.",
	},
}

// Seed populates the database with initial development data: an admin and
// an editor account, an "Article" content type and a few sample items.
// It is a no-op once any user exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)
			ON CONFLICT (email) DO NOTHING
		`, u.email, string(hash), u.role); err != nil {
			return fmt.Errorf("seed insert user %s: %w", u.email, err)
		}
	}

	var typeID int64
	err = tx.QueryRow(`
		INSERT INTO content_types (name) VALUES ('Article')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&typeID)
	if err != nil {
		return fmt.Errorf("seed insert content type: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO field_definitions (content_type_id, name, type, required, position)
		VALUES ($1, 'body', 'rich_text', TRUE, 0), ($1, 'excerpt', 'text', FALSE, 1)
		ON CONFLICT (content_type_id, name) DO NOTHING
	`, typeID); err != nil {
		return fmt.Errorf("seed insert field definitions: %w", err)
	}

	for _, item := range seedItems {
		var itemID int64
		err := tx.QueryRow(`
			INSERT INTO content_items (content_type_id, title, slug, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (slug) DO NOTHING
			RETURNING id
		`, typeID, item.title, item.slug, item.status).Scan(&itemID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed insert item %s: %w", item.slug, err)
		}

		if _, err := tx.Exec(`
			INSERT INTO content_fields (content_item_id, content_type_id, name, type, value)
			VALUES ($1, $2, 'body', 'rich_text', $3), ($1, $2, 'excerpt', 'text', $4)
		`, itemID, typeID, item.body, item.excerpt); err != nil {
			return fmt.Errorf("seed insert fields %s: %w", item.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	for _, u := range seedUsers {
		slog.Info("database seeded with default user", "email", u.email, "role", u.role)
	}
	return nil
}
