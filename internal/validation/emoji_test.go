package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveEmojis(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Envoyer la lettre 📬 rapidement", "Envoyer la lettre rapidement"},
		{"Drapeau 🇫🇷 français", "Drapeau français"},
		{"Attention ⚠️ délai", "Attention délai"},
		{"Famille 👨‍👩‍👧 complète", "Famille complète"},
		{"Touche 1️⃣ ici", "Touche 1 ici"},
		{"Étoile ⭐ bonus", "Étoile bonus"},
		{"Texte sans émoji, accents é à ç", "Texte sans émoji, accents é à ç"},
		{"Garde  les  doubles espaces sans émoji", "Garde  les  doubles espaces sans émoji"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RemoveEmojis(tt.in), tt.in)
	}
}
