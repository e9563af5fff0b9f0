// Package publishing turns generated text into Articles on the board:
// on demand for a teacher, and once per day through the Gate.
package publishing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bhe-24/pustakamateri/internal/app/system/htmlsanitize"
	"github.com/bhe-24/pustakamateri/internal/app/system/metrics"
	"github.com/bhe-24/pustakamateri/internal/domain/models"
	"go.uber.org/zap"
)

// SystemInstruction frames every generation request.
const SystemInstruction = "Anda adalah Aksa, ahli kurasi novel di Cendekia Aksara."

// DefaultTopic is used by the daily run when none is configured.
const DefaultTopic = "Teknik menulis novel secara umum untuk pemula"

var (
	// ErrEmptyTopic is shown to a teacher who submits the form blank.
	ErrEmptyTopic = errors.New("Masukkan topik dulu ya, Kak!")
	// ErrNotConfigured means no API key was provided.
	ErrNotConfigured = errors.New("API Key AI belum disetting")
	// ErrMalformedOutput means the generated text had no usable title line.
	ErrMalformedOutput = errors.New("hasil AI tidak memiliki judul")
)

// Kind says who asked for the article; it decides the stored topic label.
type Kind int

const (
	KindDaily Kind = iota
	KindOnDemand
)

func (k Kind) topicLabel() string {
	if k == KindDaily {
		return models.TopicDaily
	}
	return models.TopicOnDemand
}

func (k Kind) String() string {
	if k == KindDaily {
		return "daily"
	}
	return "on_demand"
}

// TextGenerator is the generation service.
type TextGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt, systemInstruction string) (string, error)
}

// MaterialCreator persists a new material and returns it with ID and
// timestamp assigned.
type MaterialCreator interface {
	Create(ctx context.Context, m models.Material) (models.Material, error)
}

// BuildPrompt is the instruction sent for topic.
func BuildPrompt(topic string) string {
	return "Buatlah satu artikel edukatif mendalam tentang teknik menulis NOVEL untuk penulis pemula dengan TOPIK: " + topic + ".\n" +
		"Struktur Jawaban WAJIB:\n" +
		"Baris 1: Judul Menarik (Tanpa tanda bintang atau #)\n" +
		"Baris Berikutnya: Isi materi dalam format HTML (gunakan p, h3, blockquote untuk kutipan novel, ul, li).\n" +
		"Berikan contoh 'Bedah Kutipan' dari sebuah novel terkenal. Penulis: Aksa AI."
}

// ParseArticle splits generated text into a title and an HTML body. The
// first line is the title with '#' and '*' removed; everything after the
// first newline is the body, kept as is.
func ParseArticle(raw string) (title, body string, err error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	first, rest, _ := strings.Cut(raw, "\n")

	title = strings.NewReplacer("#", "", "*", "").Replace(first)
	title = htmlsanitize.PlainText(title)
	if title == "" {
		return "", "", ErrMalformedOutput
	}
	return title, rest, nil
}

// Generator asks the text service for an article and stores it.
type Generator struct {
	text      TextGenerator
	materials MaterialCreator
	log       *zap.Logger
}

// NewGenerator wires a Generator.
func NewGenerator(text TextGenerator, materials MaterialCreator, logger *zap.Logger) *Generator {
	return &Generator{text: text, materials: materials, log: logger}
}

// Configured reports whether generation can be attempted at all.
func (g *Generator) Configured() bool {
	return g.text != nil && g.text.Configured()
}

// Publish generates one article about topic and creates it as an
// Artikel authored by the generator. Nothing is stored when generation
// or parsing fails.
func (g *Generator) Publish(ctx context.Context, topic string, kind Kind) (models.Material, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return models.Material{}, ErrEmptyTopic
	}
	if !g.Configured() {
		return models.Material{}, ErrNotConfigured
	}

	raw, err := g.text.Generate(ctx, BuildPrompt(topic), SystemInstruction)
	if err != nil {
		return models.Material{}, fmt.Errorf("generate: %w", err)
	}
	title, body, err := ParseArticle(raw)
	if err != nil {
		return models.Material{}, err
	}

	m, err := g.materials.Create(ctx, models.Material{
		Title:       title,
		Category:    models.CategoryArticle,
		Topic:       kind.topicLabel(),
		Content:     body,
		ImageURL:    models.GeneratorImageURL,
		AuthorEmail: models.GeneratorAuthorEmail,
	})
	if err != nil {
		return models.Material{}, fmt.Errorf("store generated article: %w", err)
	}

	metrics.MaterialsCreated.WithLabelValues(kind.String()).Inc()
	g.log.Info("generated article published",
		zap.String("id", m.ID.Hex()),
		zap.String("title", m.Title),
		zap.String("kind", kind.String()),
		zap.String("topic", topic))
	return m, nil
}
