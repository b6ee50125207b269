package predicates

// Question ids of the benefits interview referenced by business rules.
const (
	LivingArrangement = "living-arrangement"
	Adult2Intent      = "adult2-intent"
	Adult2Employment  = "adult2-employment-status"
	HasChildrenField  = "has-children"
	EmploymentStatus  = "employment-status"
	HousingStatus     = "housing-status"
	IncomeTypes       = "income-types"
	SavingsField      = "has-savings"
	RealEstateField   = "owns-real-estate"
)

// Option literals compared canonically by the rules below.
const (
	Yes                = "Oui"
	No                 = "Non"
	Alone              = "Seul(e)"
	Couple             = "En couple"
	Employee           = "Salarié(e)"
	SelfEmployed       = "Indépendant(e)"
	JobSeeker          = "Demandeur d’emploi"
	Student            = "Étudiant(e)"
	Retired            = "Retraité(e)"
	Inactive           = "Sans activité"
	Tenant             = "Locataire"
	Owner              = "Propriétaire"
	Hosted             = "Hébergé(e) gratuitement"
	IncomeSalary       = "Salaire"
	IncomeUnemployment = "Allocations chômage"
	IncomePension      = "Pension de retraite"
	IncomeFamily       = "Prestations familiales"
	IncomeNone         = "Aucun"
)

// Business rules of the benefits interview.
var (
	LivesInCouple = Is(LivingArrangement, Couple)

	// DescribesPartner gates partner details: the user lives in a couple and
	// opted in to describing the partner.
	DescribesPartner = All(LivesInCouple, Is(Adult2Intent, Yes))

	PartnerIsEmployee = All(DescribesPartner, Is(Adult2Employment, Employee))

	HasChildren = Is(HasChildrenField, Yes)

	IsEmployee     = Is(EmploymentStatus, Employee)
	IsSelfEmployed = Is(EmploymentStatus, SelfEmployed)
	IsJobSeeker    = Is(EmploymentStatus, JobSeeker)

	IsTenant = Is(HousingStatus, Tenant)

	ReceivesUnemploymentBenefit = Includes(IncomeTypes, IncomeUnemployment)
	ReceivesPension             = Any(Includes(IncomeTypes, IncomePension), Is(EmploymentStatus, Retired))

	HasSavings     = Is(SavingsField, Yes)
	OwnsRealEstate = Is(RealEstateField, Yes)
)

// Rules names every business rule so step tables can be described as plain
// data.
var Rules = map[string]Predicate{
	"lives-in-couple":               LivesInCouple,
	"describes-partner":             DescribesPartner,
	"partner-is-employee":           PartnerIsEmployee,
	"has-children":                  HasChildren,
	"is-employee":                   IsEmployee,
	"is-self-employed":              IsSelfEmployed,
	"is-job-seeker":                 IsJobSeeker,
	"is-tenant":                     IsTenant,
	"receives-unemployment-benefit": ReceivesUnemploymentBenefit,
	"receives-pension":              ReceivesPension,
	"has-savings":                   HasSavings,
	"owns-real-estate":              OwnsRealEstate,
}
