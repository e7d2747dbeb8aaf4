package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSubjectSober(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds prefix", "Amende injuste", "Objet : Amende injuste"},
		{"keeps objet", "Objet : Contestation", "Objet : Contestation"},
		{"keeps contestation", "Contestation de l'avis n°123", "Contestation de l'avis n°123"},
		{"case insensitive", "DEMANDE de remise gracieuse", "DEMANDE de remise gracieuse"},
		{"multi word opener", "Mise en demeure de restituer le dépôt", "Mise en demeure de restituer le dépôt"},
		{"accented opener", "réclamation CAF", "réclamation CAF"},
		{"word boundary", "Demandeur d'emploi radié", "Objet : Demandeur d'emploi radié"},
		{"collapses punctuation", "Urgent!!! Pourquoi???", "Objet : Urgent! Pourquoi?"},
		{"strips emojis", "😡 Recours 🚨 urgent", "Recours urgent"},
		{"collapses whitespace", "  Recours   gracieux \n ", "Recours gracieux"},
		{"empty", "", DefaultSubject},
		{"only emojis", "🔥🔥", DefaultSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeSubjectSober(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, MakeSubjectSober(got), "idempotent")
		})
	}
}
