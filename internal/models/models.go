package models

// RideMethod identifies how a candidate service moves the rider.
type RideMethod string

const (
	RideWalking RideMethod = "walking"
	RideBiking  RideMethod = "biking"
	RideDriving RideMethod = "driving"
	RideTransit RideMethod = "transit"
	RideOther   RideMethod = "other"
)

// ParseRideMethod maps a string to a RideMethod, returning false for unknown values.
func ParseRideMethod(s string) (RideMethod, bool) {
	switch RideMethod(s) {
	case RideWalking, RideBiking, RideDriving, RideTransit, RideOther:
		return RideMethod(s), true
	}
	return "", false
}

// QualitativeTag is a user-selectable qualitative criterion used for filtering.
type QualitativeTag string

const (
	TagExperience       QualitativeTag = "experience"
	TagPubliclyOperated QualitativeTag = "publiclyOperated"
	TagSmallBusiness    QualitativeTag = "smallBusiness"
)

// ParseQualitativeTag maps a string to a QualitativeTag, returning false for unknown values.
func ParseQualitativeTag(s string) (QualitativeTag, bool) {
	switch QualitativeTag(s) {
	case TagExperience, TagPubliclyOperated, TagSmallBusiness:
		return QualitativeTag(s), true
	}
	return "", false
}

// SortCriterion is the closed set of criteria a comparison can be ordered by.
type SortCriterion string

const (
	SortName             SortCriterion = "name"
	SortPrice            SortCriterion = "price"
	SortTime             SortCriterion = "time"
	SortExperience       SortCriterion = "experience"
	SortPubliclyOperated SortCriterion = "publiclyOperated"
	SortSmallBusiness    SortCriterion = "smallBusiness"
	SortSafety           SortCriterion = "safety"
	SortCarbonEmissions  SortCriterion = "carbonEmissions"
	SortCaloriesBurned   SortCriterion = "caloriesBurned"
	SortScore            SortCriterion = "score"
)

// ParseSortCriterion maps a string to a SortCriterion, returning false for unknown values.
func ParseSortCriterion(s string) (SortCriterion, bool) {
	switch SortCriterion(s) {
	case SortName, SortPrice, SortTime, SortExperience, SortPubliclyOperated,
		SortSmallBusiness, SortSafety, SortCarbonEmissions, SortCaloriesBurned, SortScore:
		return SortCriterion(s), true
	}
	return "", false
}

// SortDirection controls the ordering of a ranked list.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ServiceCriteria holds the comparable metrics and qualitative flags of one
// candidate service. CaloriesBurned is always derived from TimeMinutes and the
// candidate's ride method; it is never set independently.
type ServiceCriteria struct {
	Price            float64 `json:"price"`
	TimeMinutes      int     `json:"time_minutes"`
	CaloriesBurned   int     `json:"calories_burned"`
	CarbonEmissions  int     `json:"carbon_emissions"`
	SmallBusiness    bool    `json:"small_business"`
	PubliclyOperated bool    `json:"publicly_operated"`
	Experience       bool    `json:"experience"`
	ExperienceRating float64 `json:"experience_rating"`
	Safety           float64 `json:"safety"`
}

// ScoreWeights are the externally configured weights used to build the
// composite "score" sort key. A weight of zero excludes the criterion.
type ScoreWeights struct {
	Price           float64 `json:"price"`
	Time            float64 `json:"time"`
	Experience      float64 `json:"experience"`
	Safety          float64 `json:"safety"`
	CarbonEmissions float64 `json:"carbon_emissions"`
	CaloriesBurned  float64 `json:"calories_burned"`
}

// ServiceDefinition is one entry of the configured service catalog. It carries
// the static criteria a candidate starts a comparison with, before the engine
// annotates it with live data.
type ServiceDefinition struct {
	Name              string          `json:"name"`
	RideMethod        RideMethod      `json:"ride_method"`
	UserProposed      bool            `json:"user_proposed"`
	UserRating        float64         `json:"user_rating,omitempty"`
	RideshareProvider string          `json:"rideshare_provider,omitempty"`
	Criteria          ServiceCriteria `json:"criteria"`
}
