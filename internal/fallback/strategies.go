package fallback

import (
	"sort"
	"strings"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// Strategy personalizes a skeleton from the form fields. It receives a
// private copy of the skeleton and must never fail.
type Strategy interface {
	Personalize(skeleton types.GenerationResult, fields types.Fields) types.GenerationResult
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(skeleton types.GenerationResult, fields types.Fields) types.GenerationResult

// Personalize calls f.
func (f StrategyFunc) Personalize(skeleton types.GenerationResult, fields types.Fields) types.GenerationResult {
	return f(skeleton, fields)
}

// binding maps a bracket placeholder to the field aliases that can fill it,
// in priority order.
type binding struct {
	placeholder string
	keys        []string
}

var identityBindings = []binding{
	{phNom, []string{"identite.nom", "nom"}},
	{phPrenom, []string{"identite.prenom", "prenom"}},
	{phAdresse, []string{"identite.adresse", "adresse"}},
}

var situationBinding = binding{phSituation, []string{"description", "situation", "probleme", "motif", "details"}}

// fieldStrategy binds identity, then tool aliases, then derived values.
// Derived values win over raw aliases for the same placeholder.
type fieldStrategy struct {
	bindings []binding
	derive   func(types.Fields) map[string]string
}

func (s fieldStrategy) Personalize(skeleton types.GenerationResult, fields types.Fields) types.GenerationResult {
	values := make(map[string]string)
	for _, b := range append(append([]binding(nil), identityBindings...), s.bindings...) {
		if v, ok := fields.String(b.keys...); ok {
			values[b.placeholder] = v
		}
	}
	if s.derive != nil {
		for k, v := range s.derive(fields) {
			values[k] = v
		}
	}
	return substitute(skeleton, values)
}

// IdentityStrategy binds only the citizen's identity.
func IdentityStrategy() Strategy {
	return fieldStrategy{}
}

// substitute replaces placeholders in every text value of r.
func substitute(r types.GenerationResult, values map[string]string) types.GenerationResult {
	if len(values) == 0 {
		return r
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, values[k])
	}
	replacer := strings.NewReplacer(pairs...)
	return r.MapStrings(replacer.Replace)
}

// DefaultStrategies returns one strategy per tool.
func DefaultStrategies(t Thresholds) map[types.ToolID]Strategy {
	return map[types.ToolID]Strategy{
		types.ToolAmendes: fieldStrategy{
			bindings: []binding{
				{"[numéro de l'avis]", []string{"numero_amende", "numero_avis", "numero_process_verbal", "numero_pv", "amende.numero", "numero"}},
				{"[date de l'infraction]", amendesDateKeys},
				{"[lieu de l'infraction]", []string{"lieu", "lieu_infraction", "amende.lieu"}},
				{"[motif de contestation]", []string{"motif_contestation", "motif", "amende.motif"}},
				{"[montant]", amendesMontantKeys},
			},
			derive: deriveAmendes,
		},
		types.ToolCAF: fieldStrategy{bindings: []binding{
			{"[numéro d'allocataire]", []string{"numero_allocataire", "allocataire.numero"}},
			{"[prestation]", []string{"prestation", "type_prestation", "type_courrier"}},
			{"[période]", []string{"periode"}},
			{"[motif]", []string{"motif", "probleme", "description"}},
			{"[pièce réclamée]", []string{"piece_reclamee", "pieces_demandees"}},
			{"[Adresse de la CAF]", []string{"adresse_caf", "caf.adresse"}},
		}},
		types.ToolLoyers: fieldStrategy{
			bindings: append([]binding{
				{"[ville]", loyersCityKeys},
				{"[loyer]", loyersRentKeys},
				{"[surface]", loyersSurfaceKeys},
			}, housingBindings...),
			derive: func(f types.Fields) map[string]string { return deriveLoyers(f, t.Loyers) },
		},
		types.ToolTravail: fieldStrategy{bindings: []binding{
			{"[employeur]", []string{"employeur", "employeur.nom", "entreprise"}},
			{"[poste]", []string{"poste", "emploi"}},
			{"[date d'embauche]", []string{"date_embauche", "contrat.date_debut"}},
			{"[Adresse de l'employeur]", []string{"adresse_employeur", "employeur.adresse"}},
			situationBinding,
		}},
		types.ToolSante: fieldStrategy{bindings: []binding{
			{"[organisme]", []string{"organisme", "caisse"}},
			{"[numéro de sécurité sociale]", []string{"numero_securite_sociale", "numero_ss"}},
			{"[date des soins]", []string{"date_soins", "date"}},
			{"[montant]", []string{"montant", "montant_soins"}},
			{"[Adresse de l'organisme]", []string{"adresse_organisme"}},
			situationBinding,
		}},
		types.ToolUsure: fieldStrategy{
			bindings: []binding{
				{"[organisme prêteur]", []string{"organisme", "preteur", "banque"}},
				{"[numéro de contrat]", []string{"numero_contrat", "credit.numero"}},
				{"[Adresse de l'organisme]", []string{"adresse_organisme"}},
				{"[type de crédit]", usureCategoryKeys},
				{"[taux]", usureRateKeys},
			},
			derive: func(f types.Fields) map[string]string { return deriveUsure(f, t.Usure) },
		},
		types.ToolEnergie: fieldStrategy{bindings: []binding{
			{"[fournisseur]", []string{"fournisseur"}},
			{"[numéro de contrat]", []string{"numero_contrat", "reference_client", "numero_client"}},
			{"[montant]", []string{"montant", "montant_facture"}},
			{"[Adresse du fournisseur]", []string{"adresse_fournisseur"}},
			situationBinding,
		}},
		types.ToolExpulsions: fieldStrategy{bindings: append([]binding{
			{"[date de l'acte]", []string{"date_acte", "date_commandement", "date_audience", "date"}},
			situationBinding,
		}, housingBindings...)},
		types.ToolCSS: fieldStrategy{
			bindings: []binding{
				{"[nombre de personnes]", cssHouseholdKeys},
				{"[ressources annuelles]", cssIncomeKeys},
				{"[Adresse de la caisse]", []string{"adresse_caisse"}},
			},
			derive: func(f types.Fields) map[string]string { return deriveCSS(f, t.CSS) },
		},
		types.ToolEcole: fieldStrategy{bindings: []binding{
			{"[établissement]", []string{"etablissement", "ecole"}},
			{"[enfant]", []string{"enfant", "nom_enfant", "enfant.prenom"}},
			{"[classe]", []string{"classe", "niveau"}},
			{"[Adresse de l'établissement]", []string{"adresse_etablissement"}},
			situationBinding,
		}},
		types.ToolAides: fieldStrategy{bindings: []binding{
			{"[aide]", []string{"aide", "type_aide"}},
			{"[organisme]", []string{"organisme"}},
			{"[Adresse de l'organisme]", []string{"adresse_organisme"}},
			situationBinding,
		}},
		types.ToolDecodeur: fieldStrategy{bindings: []binding{
			{"[organisme]", []string{"organisme", "expediteur"}},
			{"[date du courrier]", []string{"date_courrier", "date"}},
			{"[référence]", []string{"reference", "numero_dossier"}},
			{"[type de courrier]", []string{"type_courrier", "objet_courrier"}},
			{"[Adresse de l'organisme]", []string{"adresse_organisme"}},
		}},
	}
}

var housingBindings = []binding{
	{"[adresse du logement]", []string{"logement.adresse", "adresse_logement"}},
	{"[Nom du bailleur]", []string{"bailleur", "bailleur.nom", "nom_bailleur"}},
	{"[Adresse du bailleur]", []string{"adresse_bailleur", "bailleur.adresse"}},
}
