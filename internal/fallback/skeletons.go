package fallback

import (
	"strings"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// Placeholders shared by every skeleton.
const (
	phNom         = "[Nom]"
	phPrenom      = "[Prénom]"
	phAdresse     = "[Adresse]"
	phSituation   = "[description de la situation]"
	phDateDuJour  = "[date du jour]"
	automatedHelp = "Aide automatisée : ce document ne remplace pas le conseil d'un avocat ou d'une association spécialisée."
)

func body(paragraphs ...string) string { return strings.Join(paragraphs, "\n\n") }

func lines(ls ...string) string { return strings.Join(ls, "\n") }

func mentions(reminders ...string) string {
	return strings.Join(append([]string{automatedHelp}, reminders...), " ")
}

var signature = lines(phPrenom+" "+phNom, phAdresse, "Le "+phDateDuJour)

const opening = "Madame, Monsieur,"

const closing = "Dans l'attente de votre réponse, je vous prie d'agréer, Madame, Monsieur, l'expression de mes salutations distinguées."

var skeletons = map[types.ToolID]types.GenerationResult{
	types.ToolAmendes: {
		Resume: []string{
			"Analyser l'avis de contravention n° [numéro de l'avis] et vérifier les mentions obligatoires.",
			"Rassembler les preuves : photos, témoignages, justificatifs de présence ailleurs.",
			"Contester dans le délai de 45 jours, soit au plus tard le [date limite de contestation].",
			"Envoyer la requête en exonération en lettre recommandée avec accusé de réception (LRAR) ou sur le site de l'ANTAI.",
			"Ne pas payer l'amende si vous contestez : le paiement vaut reconnaissance de l'infraction.",
			"Conserver une copie de la requête et de l'accusé de réception.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("Officier du Ministère Public", "Centre National de Traitement", "CS 41101", "35911 Rennes Cedex 9"),
			Objet:            "Contestation de l'avis de contravention n° [numéro de l'avis]",
			Corps: body(
				opening,
				"Je conteste l'avis de contravention n° [numéro de l'avis] relatif à une infraction qui aurait été relevée le [date de l'infraction] au lieu suivant : [lieu de l'infraction]. Le montant réclamé s'élève à [montant].",
				"Je formule cette requête en exonération pour le motif suivant : [motif de contestation]. Conformément à l'article 529-2 du Code de procédure pénale, je vous demande de bien vouloir classer sans suite cet avis.",
				closing,
			),
			PJ:        []string{"Copie de l'avis de contravention", "Pièces justificatives du motif de contestation", "Copie du certificat d'immatriculation"},
			Signature: signature,
		},
		Checklist: []string{
			"Vérifier la date limite de contestation : [date limite de contestation].",
			"Joindre l'original de l'avis de contravention ou sa copie.",
			"Envoyer en LRAR et conserver l'accusé de réception.",
			"Ne pas régler l'amende pendant la contestation.",
		},
		Mentions: mentions(
			"Le délai de 45 jours court à compter de l'envoi de l'avis.",
			"Une contestation abusive peut entraîner une amende civile.",
		),
	},
	types.ToolCAF: {
		Resume: []string{
			"Analyser le courrier de la CAF concernant [prestation] et noter la date de réception.",
			"Rassembler les justificatifs demandés, notamment : [pièce réclamée].",
			"Contester par un recours gracieux auprès de la Commission de Recours Amiable dans les 2 mois.",
			"Envoyer la demande de réexamen en lettre recommandée avec accusé de réception.",
			"Surveiller votre espace allocataire et vos relevés de paiement.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("Caisse d'Allocations Familiales", "Commission de Recours Amiable", "[Adresse de la CAF]"),
			Objet:            "Recours gracieux, allocataire n° [numéro d'allocataire]",
			Corps: body(
				opening,
				"Allocataire sous le numéro [numéro d'allocataire], je fais suite à votre courrier concernant ma prestation [prestation] pour la période [période]. Le motif indiqué est le suivant : [motif].",
				"Par la présente, je forme un recours gracieux et sollicite le réexamen de mon dossier par la Commission de Recours Amiable de la Caisse d'Allocations Familiales. Je joins les pièces justificatives permettant de régulariser ma situation.",
				closing,
			),
			PJ:        []string{"Copie du courrier de la CAF", "Justificatifs demandés", "Attestation de situation"},
			Signature: signature,
		},
		Checklist: []string{
			"Respecter le délai de 2 mois pour saisir la Commission de Recours Amiable.",
			"Joindre une copie du courrier contesté.",
			"Indiquer votre numéro d'allocataire sur chaque page.",
			"Conserver une copie de l'envoi et l'accusé de réception.",
		},
		Mentions: mentions(
			"Le recours gracieux préalable est obligatoire avant toute saisine du tribunal judiciaire.",
			"Une remise de dette peut être demandée en cas de précarité.",
		),
	},
	types.ToolLoyers: {
		Resume: []string{
			"Analyser votre bail : loyer de [loyer], surface de [surface], commune : [ville].",
			"Vérifier le loyer au mètre carré : [analyse du loyer]",
			"Rassembler le bail, les quittances et le diagnostic de surface.",
			"Envoyer une demande de mise en conformité au bailleur en lettre recommandée avec accusé de réception.",
			"Saisir la commission départementale de conciliation en l'absence de réponse sous deux mois.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[Nom du bailleur]", "[Adresse du bailleur]"),
			Objet:            "Demande de mise en conformité du loyer",
			Corps: body(
				opening,
				"Locataire du logement situé [adresse du logement], je règle un loyer mensuel de [loyer] pour une surface de [surface]. [analyse du loyer]",
				"Je vous demande en conséquence de mettre le loyer en conformité avec les références applicables et de me rembourser les sommes trop perçues, conformément à la loi du 6 juillet 1989.",
				closing,
			),
			PJ:        []string{"Copie du bail", "Dernières quittances de loyer", "Diagnostic de surface habitable"},
			Signature: signature,
		},
		Checklist: []string{
			"Vérifier si la commune applique l'encadrement des loyers.",
			"Calculer le loyer au mètre carré à partir de la surface habitable.",
			"Conserver toutes les quittances.",
			"Préparer le dossier pour la commission de conciliation.",
		},
		Mentions: mentions(
			"Les loyers de référence sont fixés par arrêté préfectoral et évoluent chaque année.",
			"L'action en diminution de loyer est encadrée par des délais.",
		),
	},
	types.ToolTravail: {
		Resume: []string{
			"Analyser votre contrat de travail et vos bulletins de paie.",
			"Rassembler les preuves : courriels, plannings, attestations de collègues.",
			"Envoyer une réclamation écrite à l'employeur [employeur] en lettre recommandée.",
			"Contacter un représentant du personnel ou l'inspection du travail.",
			"Saisir le conseil de prud'hommes si le litige persiste.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[employeur]", "Service des ressources humaines", "[Adresse de l'employeur]"),
			Objet:            "Réclamation relative à mon contrat de travail",
			Corps: body(
				opening,
				"Salarié de votre entreprise au poste de [poste] depuis le [date d'embauche], je souhaite porter à votre connaissance la situation suivante : [description de la situation].",
				"Je vous demande de régulariser cette situation dans les meilleurs délais, conformément aux dispositions du Code du travail et de la convention collective applicable.",
				closing,
			),
			PJ:        []string{"Copie du contrat de travail", "Bulletins de paie concernés", "Échanges écrits avec l'employeur"},
			Signature: signature,
		},
		Checklist: []string{
			"Vérifier les délais de prescription applicables à votre demande.",
			"Conserver une copie de tous les échanges avec l'employeur.",
			"Préparer un historique daté des faits.",
		},
		Mentions: mentions(
			"Les délais de prescription varient selon la nature de la demande.",
			"Le défenseur syndical ou un avocat peut vous assister devant le conseil de prud'hommes.",
		),
	},
	types.ToolSante: {
		Resume: []string{
			"Analyser la décision de [organisme] et la date de notification.",
			"Rassembler les ordonnances, feuilles de soins et décomptes de remboursement.",
			"Contester par écrit auprès de la Commission de Recours Amiable de l'organisme.",
			"Envoyer la réclamation en lettre recommandée avec accusé de réception.",
			"Solliciter le médiateur de l'Assurance Maladie en cas de blocage.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[organisme]", "Commission de Recours Amiable", "[Adresse de l'organisme]"),
			Objet:            "Recours relatif à ma prise en charge, assuré n° [numéro de sécurité sociale]",
			Corps: body(
				opening,
				"Assuré sous le numéro [numéro de sécurité sociale], je conteste la décision concernant les soins du [date des soins] pour un montant de [montant]. Ma situation est la suivante : [description de la situation].",
				"Je vous demande de bien vouloir réexaminer mon dossier et procéder à la prise en charge des frais concernés, au vu des pièces jointes.",
				closing,
			),
			PJ:        []string{"Copie de la décision contestée", "Ordonnances et feuilles de soins", "Décomptes de remboursement"},
			Signature: signature,
		},
		Checklist: []string{
			"Respecter le délai de 2 mois suivant la notification de la décision.",
			"Joindre les justificatifs médicaux utiles.",
			"Conserver une copie du dossier envoyé.",
		},
		Mentions: mentions(
			"Les informations médicales transmises sont couvertes par le secret médical.",
			"Le recours amiable est un préalable obligatoire avant le tribunal judiciaire.",
		),
	},
	types.ToolUsure: {
		Resume: []string{
			"Analyser l'offre de crédit et relever le TAEG de [taux].",
			"Vérifier le taux au regard du seuil de l'usure : [analyse du taux]",
			"Rassembler le contrat, les tableaux d'amortissement et les relevés.",
			"Envoyer une réclamation à l'organisme prêteur en lettre recommandée.",
			"Saisir la commission de surendettement de la Banque de France si vos dettes deviennent ingérables.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[organisme prêteur]", "Service réclamations", "[Adresse de l'organisme]"),
			Objet:            "Réclamation relative au taux de mon crédit n° [numéro de contrat]",
			Corps: body(
				opening,
				"Titulaire du contrat de crédit n° [numéro de contrat], de type [type de crédit], je constate que le taux effectif global stipulé est de [taux]. [analyse du taux]",
				"Je vous demande de me communiquer le détail du calcul du TAEG et, le cas échéant, de restituer les intérêts perçus au-delà du seuil légal, conformément aux articles L314-6 et suivants du Code de la consommation.",
				closing,
			),
			PJ:        []string{"Copie de l'offre de crédit", "Tableau d'amortissement", "Relevés de compte"},
			Signature: signature,
		},
		Checklist: []string{
			"Vérifier le seuil de l'usure publié pour le trimestre de signature.",
			"Conserver l'offre de crédit signée.",
			"Préparer un budget détaillé des charges et ressources.",
		},
		Mentions: mentions(
			"Les seuils de l'usure sont publiés chaque trimestre par la Banque de France.",
			"Le dépôt d'un dossier de surendettement est gratuit.",
		),
	},
	types.ToolEnergie: {
		Resume: []string{
			"Analyser la facture ou le courrier de [fournisseur] et relever la référence client.",
			"Vérifier les relevés de compteur et les index facturés.",
			"Rassembler les factures précédentes et vos relevés personnels.",
			"Envoyer une réclamation écrite au service client du fournisseur.",
			"Saisir le médiateur national de l'énergie sans réponse satisfaisante sous deux mois.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[fournisseur]", "Service clients", "[Adresse du fournisseur]"),
			Objet:            "Réclamation, contrat n° [numéro de contrat]",
			Corps: body(
				opening,
				"Titulaire du contrat n° [numéro de contrat], je conteste la facturation d'un montant de [montant]. Ma situation est la suivante : [description de la situation].",
				"Je vous demande de procéder à la vérification des index et à la rectification de ma facture, et de suspendre toute procédure de recouvrement pendant l'instruction de ma réclamation.",
				closing,
			),
			PJ:        []string{"Copie de la facture contestée", "Relevés de compteur", "Factures précédentes"},
			Signature: signature,
		},
		Checklist: []string{
			"Relever et photographier l'index du compteur.",
			"Conserver une copie de la réclamation.",
			"Noter la date d'envoi pour le délai de saisine du médiateur.",
		},
		Mentions: mentions(
			"La trêve hivernale interdit les coupures d'électricité et de gaz pour impayés du 1er novembre au 31 mars pour la résidence principale.",
			"Le chèque énergie peut aider au paiement des factures.",
		),
	},
	types.ToolExpulsions: {
		Resume: []string{
			"Analyser l'acte reçu (commandement de payer, assignation ou jugement) et sa date : [date de l'acte].",
			"Contacter sans attendre l'ADIL ou une permanence d'accès au droit.",
			"Rassembler le bail, les quittances et les justificatifs de ressources.",
			"Demander des délais de paiement ou un plan d'apurement au bailleur.",
			"Préparer votre dossier pour l'audience et solliciter l'aide juridictionnelle.",
			"Saisir le fonds de solidarité pour le logement si vous avez une dette locative.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[Nom du bailleur]", "[Adresse du bailleur]"),
			Objet:            "Demande de délais de paiement et de plan d'apurement",
			Corps: body(
				opening,
				"Locataire du logement situé [adresse du logement], j'ai reçu le [date de l'acte] un acte relatif à la procédure engagée à mon encontre. Ma situation est la suivante : [description de la situation].",
				"Afin d'éviter toute mesure d'expulsion, je vous propose un plan d'apurement de la dette adapté à mes ressources et sollicite des délais de paiement, conformément à l'article 24 de la loi du 6 juillet 1989.",
				closing,
			),
			PJ:        []string{"Copie de l'acte reçu", "Justificatifs de ressources", "Proposition d'échéancier"},
			Signature: signature,
		},
		Checklist: []string{
			"Vérifier la date de l'audience et s'y présenter.",
			"Déposer une demande d'aide juridictionnelle.",
			"Contacter le service social de votre commune.",
			"Conserver toutes les quittances et preuves de paiement.",
		},
		Mentions: mentions(
			"Aucune expulsion ne peut avoir lieu pendant la trêve hivernale, du 1er novembre au 31 mars.",
			"Seul un huissier muni d'une décision de justice peut procéder à une expulsion.",
		),
	},
	types.ToolCSS: {
		Resume: []string{
			"Analyser vos ressources des 12 derniers mois et la composition du foyer.",
			"Vérifier votre éligibilité : [éligibilité CSS]",
			"Rassembler les justificatifs de ressources et d'identité de chaque membre du foyer.",
			"Envoyer la demande de Complémentaire santé solidaire à votre caisse d'assurance maladie.",
			"Surveiller la réponse de la caisse, attendue sous deux mois.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("Caisse Primaire d'Assurance Maladie", "Service Complémentaire santé solidaire", "[Adresse de la caisse]"),
			Objet:            "Demande de Complémentaire santé solidaire",
			Corps: body(
				opening,
				"Je sollicite l'attribution de la Complémentaire santé solidaire pour mon foyer composé de [nombre de personnes] personne(s), dont les ressources annuelles s'élèvent à [ressources annuelles].",
				"[éligibilité CSS] Vous trouverez ci-joint le formulaire de demande et l'ensemble des justificatifs nécessaires à l'instruction de mon dossier.",
				closing,
			),
			PJ:        []string{"Formulaire de demande", "Justificatifs de ressources", "Copie de la pièce d'identité"},
			Signature: signature,
		},
		Checklist: []string{
			"Compléter le formulaire de demande de Complémentaire santé solidaire.",
			"Joindre les justificatifs de ressources de tous les membres du foyer.",
			"Conserver une copie du dossier.",
		},
		Mentions: mentions(
			"Les plafonds de ressources sont révisés chaque année au 1er avril.",
			"Le calcul indicatif ne préjuge pas de la décision de la caisse.",
		),
	},
	types.ToolEcole: {
		Resume: []string{
			"Analyser la décision de l'établissement [établissement] concernant [enfant].",
			"Rassembler les bulletins, échanges et comptes rendus de réunion.",
			"Demander un rendez-vous avec la direction ou l'équipe pédagogique.",
			"Envoyer un recours écrit dans les délais indiqués sur la décision.",
			"Saisir le médiateur de l'Éducation nationale si le désaccord persiste.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("Direction de [établissement]", "[Adresse de l'établissement]"),
			Objet:            "Recours concernant la situation scolaire de [enfant]",
			Corps: body(
				opening,
				"Représentant légal de [enfant], scolarisé en [classe], je souhaite porter à votre attention la situation suivante : [description de la situation].",
				"Je vous demande de bien vouloir réexaminer cette décision et de me recevoir afin de trouver une solution adaptée à l'intérêt de l'enfant.",
				closing,
			),
			PJ:        []string{"Copie de la décision", "Bulletins scolaires", "Échanges avec l'établissement"},
			Signature: signature,
		},
		Checklist: []string{
			"Vérifier le délai de recours indiqué sur la décision.",
			"Conserver les échanges écrits avec l'établissement.",
			"Préparer les documents pour l'entretien.",
		},
		Mentions: mentions(
			"Les décisions d'orientation peuvent faire l'objet d'un appel dans un délai court.",
			"Le médiateur académique peut être saisi gratuitement.",
		),
	},
	types.ToolAides: {
		Resume: []string{
			"Analyser votre situation et identifier l'aide concernée : [aide].",
			"Vérifier les conditions d'attribution auprès de [organisme].",
			"Rassembler les justificatifs de ressources et de situation familiale.",
			"Envoyer votre demande ou votre recours en lettre recommandée.",
			"Contacter un travailleur social ou le CCAS de votre commune pour être accompagné.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[organisme]", "[Adresse de l'organisme]"),
			Objet:            "Demande concernant l'aide [aide]",
			Corps: body(
				opening,
				"Je me permets de vous solliciter au sujet de l'aide [aide]. Ma situation est la suivante : [description de la situation].",
				"Je vous demande de bien vouloir examiner ma demande au vu des justificatifs joints et de m'indiquer les démarches à accomplir le cas échéant.",
				closing,
			),
			PJ:        []string{"Justificatifs de ressources", "Justificatif de domicile", "Copie de la pièce d'identité"},
			Signature: signature,
		},
		Checklist: []string{
			"Vérifier les plafonds et conditions de l'aide demandée.",
			"Joindre tous les justificatifs demandés.",
			"Conserver la preuve de dépôt du dossier.",
		},
		Mentions: mentions(
			"Les conditions d'attribution évoluent régulièrement.",
			"Un refus peut être contesté, en commençant par un recours gracieux.",
		),
	},
	types.ToolDecodeur: {
		Resume: []string{
			"Analyser le courrier de [organisme] daté du [date du courrier] et sa référence [référence].",
			"Identifier la nature du courrier : [type de courrier].",
			"Vérifier les délais de réponse ou de recours mentionnés.",
			"Rassembler les pièces demandées par l'organisme.",
			"Envoyer une demande d'explications écrite si un point reste obscur.",
		},
		Lettre: types.Letter{
			DestinataireBloc: lines("[organisme]", "[Adresse de l'organisme]"),
			Objet:            "Demande d'explications, courrier référence [référence]",
			Corps: body(
				opening,
				"J'ai reçu votre courrier du [date du courrier], référencé [référence], relatif à : [type de courrier].",
				"Je vous demande de bien vouloir m'apporter des précisions sur son contenu, sur les démarches attendues de ma part et sur les délais applicables, afin de pouvoir y répondre dans les meilleures conditions.",
				closing,
			),
			PJ:        []string{"Copie du courrier reçu"},
			Signature: signature,
		},
		Checklist: []string{
			"Noter la date de réception du courrier.",
			"Repérer les délais indiqués.",
			"Conserver le courrier original.",
		},
		Mentions: mentions(
			"Le décodage proposé est indicatif.",
			"En cas de doute, rapprochez-vous d'un point d'accès au droit ou d'une maison France Services.",
		),
	},
}

var genericSkeleton = types.GenerationResult{
	Resume: []string{
		"Analyser votre situation et identifier l'organisme compétent.",
		"Rassembler les pièces justificatives utiles à votre dossier.",
		"Préparer un courrier clair exposant les faits et votre demande.",
		"Envoyer le courrier en lettre recommandée avec accusé de réception.",
		"Conserver une copie de tous les documents envoyés.",
	},
	Lettre: types.Letter{
		DestinataireBloc: lines("[Service compétent]", "[Adresse du service]"),
		Objet:            "Demande relative à ma situation",
		Corps: body(
			opening,
			"Je me permets de vous écrire au sujet de la situation suivante : "+phSituation+".",
			"Je vous demande de bien vouloir examiner ma demande et de me faire connaître votre décision, au vu des pièces jointes.",
			closing,
		),
		PJ:        []string{"Copie des pièces justificatives", "Copie de la pièce d'identité"},
		Signature: signature,
	},
	Checklist: []string{
		"Vérifier les délais applicables à votre démarche.",
		"Joindre une copie de chaque pièce justificative.",
		"Conserver la preuve d'envoi.",
	},
	Mentions: mentions(
		"Vérifiez les délais applicables à votre situation.",
		"Un professionnel du droit peut vous accompagner gratuitement dans un point d'accès au droit.",
	),
}

// Skeleton returns a deep copy of the tool's skeleton and whether the tool
// has a dedicated one. Unknown tools get the generic skeleton.
func Skeleton(toolID types.ToolID) (types.GenerationResult, bool) {
	if s, ok := skeletons[toolID]; ok {
		return s.Clone(), true
	}
	return genericSkeleton.Clone(), false
}
