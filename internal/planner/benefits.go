package planner

import (
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/options"
	"github.com/pders01/interview/internal/oracle"
	p "github.com/pders01/interview/internal/predicates"
)

// Sections of the benefits interview.
var (
	SectionHousehold = models.Section{ID: "foyer", Title: "Votre foyer"}
	SectionActivity  = models.Section{ID: "activite", Title: "Votre activité"}
	SectionHousing   = models.Section{ID: "logement", Title: "Votre logement"}
	SectionResources = models.Section{ID: "ressources", Title: "Vos ressources"}
	SectionProperty  = models.Section{ID: "patrimoine", Title: "Votre patrimoine"}
)

// BenefitsMeta is the banner of the benefits interview.
var BenefitsMeta = oracle.Meta{
	Title:       "Simulation des aides",
	Description: "Quelques questions sur votre situation pour préparer l'estimation de vos droits.",
}

var (
	yesNo    = options.FromLabels(p.Yes, p.No)
	statuses = options.FromLabels(p.Employee, p.SelfEmployed, p.JobSeeker, p.Student, p.Retired, p.Inactive)
)

func amount(lo float64) *models.Validation {
	return &models.Validation{Min: &lo, Message: "Indiquez un montant positif."}
}

// BenefitsSteps returns the step table of the benefits interview. Each call
// returns a fresh slice.
func BenefitsSteps() []Step {
	children := float64(1)
	maxChildren := float64(20)

	return []Step{
		{
			ID:      "intro",
			Type:    StepInfo,
			Section: SectionHousehold,
			Prompt:  "Bonjour ! Je vais vous poser quelques questions sur votre situation pour estimer les aides auxquelles vous pourriez avoir droit.",
		},
		{
			ID:      "user-birth-date",
			Type:    StepQuestion,
			Section: SectionHousehold,
			Prompt:  "Quelle est votre date de naissance ?",
			Label:   "Votre date de naissance",
			Input:   models.TypeDate,
		},
		{
			ID:      p.LivingArrangement,
			Type:    StepQuestion,
			Section: SectionHousehold,
			Prompt:  "Vivez-vous seul(e) ou en couple ?",
			Label:   "Situation familiale",
			Options: options.FromLabels(p.Alone, p.Couple),
		},
		{
			ID:        p.Adult2Intent,
			Type:      StepQuestion,
			Section:   SectionHousehold,
			Prompt:    "Souhaitez-vous renseigner la situation de votre conjoint(e) ?",
			Label:     "Informations sur le conjoint",
			Input:     models.TypeBoolean,
			Options:   yesNo,
			ShouldAsk: p.LivesInCouple,
		},
		{
			ID:        "partner-intro",
			Type:      StepInfo,
			Section:   SectionHousehold,
			Prompt:    "Parlons maintenant de votre conjoint(e).",
			ShouldAsk: p.DescribesPartner,
		},
		{
			ID:        "adult2-birth-date",
			Type:      StepQuestion,
			Section:   SectionHousehold,
			Prompt:    "Quelle est la date de naissance de votre conjoint(e) ?",
			Label:     "Date de naissance du conjoint",
			Input:     models.TypeDate,
			ShouldAsk: p.DescribesPartner,
		},
		{
			ID:        p.Adult2Employment,
			Type:      StepQuestion,
			Section:   SectionHousehold,
			Prompt:    "Quelle est la situation professionnelle de votre conjoint(e) ?",
			Label:     "Activité du conjoint",
			Options:   statuses,
			ShouldAsk: p.DescribesPartner,
		},
		{
			ID:         "adult2-salary",
			Type:       StepQuestion,
			Section:    SectionHousehold,
			Prompt:     "Quel est le salaire net mensuel de votre conjoint(e) ?",
			Label:      "Salaire du conjoint",
			Input:      models.TypeNumber,
			Unit:       "€",
			Validation: amount(0),
			ShouldAsk:  p.PartnerIsEmployee,
		},
		{
			ID:      p.HasChildrenField,
			Type:    StepQuestion,
			Section: SectionHousehold,
			Prompt:  "Avez-vous des enfants à charge ?",
			Label:   "Enfants à charge",
			Input:   models.TypeBoolean,
			Options: yesNo,
		},
		{
			ID:      "children-count",
			Type:    StepQuestion,
			Section: SectionHousehold,
			Prompt:  "Combien d'enfants avez-vous à charge ?",
			Label:   "Nombre d'enfants",
			Input:   models.TypeNumber,
			Validation: &models.Validation{
				Min:     &children,
				Max:     &maxChildren,
				Message: "Indiquez un nombre d'enfants entre 1 et 20.",
			},
			ShouldAsk: p.HasChildren,
		},
		{
			ID:      "children-birth-dates",
			Type:    StepQuestion,
			Section: SectionHousehold,
			Prompt:  "Quelles sont leurs dates de naissance ? (JJ/MM/AAAA, séparées par « ; »)",
			Label:   "Dates de naissance des enfants",
			Input:   models.TypeText,
			Validation: &models.Validation{
				Pattern: `^\d{2}/\d{2}/\d{4}(\s*;\s*\d{2}/\d{2}/\d{4})*$`,
				Message: "Indiquez les dates au format JJ/MM/AAAA, séparées par « ; ».",
			},
			ShouldAsk: p.HasChildren,
		},
		{
			ID:      p.EmploymentStatus,
			Type:    StepQuestion,
			Section: SectionActivity,
			Prompt:  "Quelle est votre situation professionnelle ?",
			Label:   "Situation professionnelle",
			Options: statuses,
		},
		{
			ID:         "salary-amount",
			Type:       StepQuestion,
			Section:    SectionActivity,
			Prompt:     "Quel est votre salaire net mensuel ?",
			Label:      "Salaire net mensuel",
			Input:      models.TypeNumber,
			Unit:       "€",
			Validation: amount(0),
			ShouldAsk:  p.IsEmployee,
		},
		{
			ID:         "self-employed-revenue",
			Type:       StepQuestion,
			Section:    SectionActivity,
			Prompt:     "Quel est votre chiffre d'affaires annuel ?",
			Label:      "Chiffre d'affaires annuel",
			Input:      models.TypeNumber,
			Unit:       "€",
			Validation: amount(0),
			ShouldAsk:  p.IsSelfEmployed,
		},
		{
			ID:        "job-seeker-since",
			Type:      StepQuestion,
			Section:   SectionActivity,
			Prompt:    "Depuis quand êtes-vous inscrit(e) comme demandeur d'emploi ?",
			Label:     "Inscription comme demandeur d'emploi",
			Input:     models.TypeDate,
			Optional:  true,
			ShouldAsk: p.IsJobSeeker,
		},
		{
			ID:      p.HousingStatus,
			Type:    StepQuestion,
			Section: SectionHousing,
			Prompt:  "Quelle est votre situation de logement ?",
			Label:   "Logement",
			Options: options.FromLabels(p.Tenant, p.Owner, p.Hosted),
		},
		{
			ID:         "rent-amount",
			Type:       StepQuestion,
			Section:    SectionHousing,
			Prompt:     "Quel est le montant de votre loyer mensuel, charges comprises ?",
			Label:      "Loyer mensuel",
			Input:      models.TypeNumber,
			Unit:       "€",
			Validation: amount(0),
			ShouldAsk:  p.IsTenant,
		},
		{
			ID:      "postal-code",
			Type:    StepQuestion,
			Section: SectionHousing,
			Prompt:  "Quel est le code postal de votre logement ?",
			Label:   "Code postal",
			Input:   models.TypeText,
			Validation: &models.Validation{
				Pattern: `^\d{5}$`,
				Message: "Le code postal doit comporter 5 chiffres.",
			},
		},
		{
			ID:      p.IncomeTypes,
			Type:    StepQuestion,
			Section: SectionResources,
			Prompt:  "Quels revenus percevez-vous ? (plusieurs choix possibles)",
			Label:   "Types de revenus",
			Input:   models.TypeMultiSelect,
			Options: options.FromLabels(p.IncomeSalary, p.IncomeUnemployment, p.IncomePension, p.IncomeFamily, p.IncomeNone),
		},
		{
			ID:         "unemployment-benefit-amount",
			Type:       StepQuestion,
			Section:    SectionResources,
			Prompt:     "Quel est le montant mensuel de vos allocations chômage ?",
			Label:      "Allocations chômage",
			Input:      models.TypeNumber,
			Unit:       "€",
			Validation: amount(0),
			ShouldAsk:  p.ReceivesUnemploymentBenefit,
		},
		{
			ID:         "pension-amount",
			Type:       StepQuestion,
			Section:    SectionResources,
			Prompt:     "Quel est le montant mensuel de votre pension de retraite ?",
			Label:      "Pension de retraite",
			Input:      models.TypeNumber,
			Unit:       "€",
			Validation: amount(0),
			ShouldAsk:  p.ReceivesPension,
		},
		{
			ID:         "family-benefit-amount",
			Type:       StepQuestion,
			Section:    SectionResources,
			Prompt:     "Quel est le montant mensuel de vos prestations familiales ?",
			Label:      "Prestations familiales",
			Input:      models.TypeNumber,
			Unit:       "€",
			Optional:   true,
			Validation: amount(0),
			ShouldAsk:  p.Includes(p.IncomeTypes, p.IncomeFamily),
		},
		{
			ID:      p.SavingsField,
			Type:    StepQuestion,
			Section: SectionProperty,
			Prompt:  "Disposez-vous d'une épargne (livrets, assurance-vie) ?",
			Label:   "Épargne",
			Input:   models.TypeBoolean,
			Options: yesNo,
		},
		{
			ID:         "savings-amount",
			Type:       StepQuestion,
			Section:    SectionProperty,
			Prompt:     "À combien s'élève votre épargne ?",
			Label:      "Montant de l'épargne",
			Input:      models.TypeNumber,
			Unit:       "€",
			Validation: amount(0),
			ShouldAsk:  p.HasSavings,
		},
		{
			ID:      p.RealEstateField,
			Type:    StepQuestion,
			Section: SectionProperty,
			Prompt:  "Êtes-vous propriétaire d'un bien immobilier, hors résidence principale ?",
			Label:   "Bien immobilier",
			Input:   models.TypeBoolean,
			Options: yesNo,
		},
		{
			ID:         "real-estate-value",
			Type:       StepQuestion,
			Section:    SectionProperty,
			Prompt:     "Quelle est la valeur estimée de ce bien ?",
			Label:      "Valeur du bien",
			Input:      models.TypeNumber,
			Unit:       "€",
			Optional:   true,
			Validation: amount(0),
			ShouldAsk:  p.OwnsRealEstate,
		},
		{
			ID:      "outro",
			Type:    StepInfo,
			Section: SectionProperty,
			Prompt:  "Merci ! Vos réponses sont prêtes à être transmises pour le calcul de vos droits.",
		},
	}
}
