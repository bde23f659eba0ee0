package i18n

import "github.com/bobby-s-dev/weather-vigilance/internal/models"

// Copy is the localized headline text of an alert.
type Copy struct {
	Title       string
	Description string
}

// Hazards without their own copy or recommendations borrow these.
const (
	GenericCopyHazard           = models.HazardLightRain
	GenericRecommendationHazard = models.HazardHeavyRain
)

var alertCopy = map[models.HazardType]map[Locale]Copy{
	models.HazardHeatwave: {
		French:  {"Canicule", "Vague de chaleur extrême"},
		Arabic:  {"موجة حر", "موجة حر شديدة"},
		English: {"Heatwave", "Extreme heat wave"},
	},
	models.HazardHot: {
		French:  {"Forte Chaleur", "Températures élevées"},
		Arabic:  {"حرارة شديدة", "درجات حرارة مرتفعة"},
		English: {"High Heat", "High temperatures"},
	},
	models.HazardCold: {
		French:  {"Vague de Froid", "Températures très basses"},
		Arabic:  {"موجة برد", "درجات حرارة منخفضة جداً"},
		English: {"Cold Wave", "Very low temperatures"},
	},
	models.HazardFreezing: {
		French:  {"Gel", "Risque de gel et verglas"},
		Arabic:  {"صقيع", "خطر الصقيع والجليد"},
		English: {"Frost", "Risk of frost and ice"},
	},
	models.HazardHeavyRain: {
		French:  {"Pluies Intenses", "Risque d'inondation"},
		Arabic:  {"أمطار غزيرة", "خطر الفيضانات"},
		English: {"Heavy Rain", "Flood risk"},
	},
	models.HazardModerateRain: {
		French:  {"Fortes Pluies", "Précipitations importantes"},
		Arabic:  {"أمطار قوية", "هطول أمطار كثيفة"},
		English: {"Strong Rain", "Significant precipitation"},
	},
	models.HazardLightRain: {
		French:  {"Pluie", "Précipitations modérées"},
		Arabic:  {"أمطار", "هطول أمطار معتدلة"},
		English: {"Rain", "Moderate precipitation"},
	},
	models.HazardStorm: {
		French:  {"Tempête", "Vents très violents"},
		Arabic:  {"عاصفة", "رياح عنيفة جداً"},
		English: {"Storm", "Very violent winds"},
	},
	models.HazardStrongWind: {
		French:  {"Vent Violent", "Rafales dangereuses"},
		Arabic:  {"رياح عنيفة", "هبات خطيرة"},
		English: {"Violent Wind", "Dangerous gusts"},
	},
	models.HazardModerateWind: {
		French:  {"Vent Fort", "Rafales importantes"},
		Arabic:  {"رياح قوية", "هبات كبيرة"},
		English: {"Strong Wind", "Significant gusts"},
	},
	models.HazardDenseFog: {
		French:  {"Brouillard Dense", "Visibilité quasi nulle"},
		Arabic:  {"ضباب كثيف", "رؤية شبه معدومة"},
		English: {"Dense Fog", "Near-zero visibility"},
	},
	models.HazardFog: {
		French:  {"Brouillard", "Visibilité réduite"},
		Arabic:  {"ضباب", "رؤية منخفضة"},
		English: {"Fog", "Reduced visibility"},
	},
	models.HazardMist: {
		French:  {"Brume", "Légère réduction de visibilité"},
		Arabic:  {"ضباب خفيف", "انخفاض طفيف في الرؤية"},
		English: {"Mist", "Slight visibility reduction"},
	},
	models.HazardThunderstorm: {
		French:  {"Orage", "Activité orageuse"},
		Arabic:  {"عاصفة رعدية", "نشاط رعدي"},
		English: {"Thunderstorm", "Storm activity"},
	},
}

var recommendations = map[models.HazardType]map[Locale][]string{
	models.HazardHeatwave: {
		French:  {"Restez au frais", "Hydratez-vous régulièrement", "Évitez les activités extérieures"},
		Arabic:  {"ابق في مكان بارد", "اشرب الماء بانتظام", "تجنب الأنشطة الخارجية"},
		English: {"Stay cool", "Stay hydrated", "Avoid outdoor activities"},
	},
	models.HazardHeavyRain: {
		French:  {"Évitez les déplacements", "Ne traversez pas les zones inondées", "Préparez les équipements d'urgence"},
		Arabic:  {"تجنب التنقل", "لا تعبر المناطق المغمورة", "جهز معدات الطوارئ"},
		English: {"Avoid travel", "Do not cross flooded areas", "Prepare emergency equipment"},
	},
	models.HazardStorm: {
		French:  {"Restez à l'intérieur", "Sécurisez les objets extérieurs", "Éloignez-vous des arbres"},
		Arabic:  {"ابق في الداخل", "أمّن الأغراض الخارجية", "ابتعد عن الأشجار"},
		English: {"Stay indoors", "Secure outdoor objects", "Stay away from trees"},
	},
	models.HazardDenseFog: {
		French:  {"Réduisez la vitesse", "Utilisez les feux de brouillard", "Augmentez les distances de sécurité"},
		Arabic:  {"قلل السرعة", "استخدم أضواء الضباب", "زد مسافات الأمان"},
		English: {"Reduce speed", "Use fog lights", "Increase safety distances"},
	},
}

// AlertCopy resolves title and description for a hazard. The chain is the
// hazard in the requested locale, then in the reference locale, then the
// generic hazard's copy in the same two locales.
func AlertCopy(locale Locale, hazard models.HazardType) Copy {
	byLocale, ok := alertCopy[hazard]
	if !ok {
		byLocale = alertCopy[GenericCopyHazard]
	}
	if c, ok := byLocale[locale]; ok {
		return c
	}
	return byLocale[Reference]
}

// Recommendations resolves the ordered action list for a hazard. Hazards
// without a dedicated list use the generic hazard's list. The result is a
// fresh slice.
func Recommendations(locale Locale, hazard models.HazardType) []string {
	byLocale, ok := recommendations[hazard]
	if !ok {
		byLocale = recommendations[GenericRecommendationHazard]
	}
	list, ok := byLocale[locale]
	if !ok {
		list = byLocale[Reference]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// HasDedicatedRecommendations reports whether the hazard has its own list.
func HasDedicatedRecommendations(hazard models.HazardType) bool {
	_, ok := recommendations[hazard]
	return ok
}

var levelLabels = map[models.Severity]map[Locale]string{
	models.SeverityVert:   {French: "Normal", Arabic: "عادي", English: "Normal"},
	models.SeverityJaune:  {French: "Vigilance", Arabic: "يقظة", English: "Watch"},
	models.SeverityOrange: {French: "Élevé", Arabic: "مرتفع", English: "High"},
	models.SeverityRouge:  {French: "Critique", Arabic: "حرج", English: "Critical"},
}

// LevelLabel is the banner text for a vigilance level.
func LevelLabel(locale Locale, s models.Severity) string {
	byLocale, ok := levelLabels[s]
	if !ok {
		byLocale = levelLabels[models.SeverityVert]
	}
	if label, ok := byLocale[locale]; ok {
		return label
	}
	return byLocale[Reference]
}
