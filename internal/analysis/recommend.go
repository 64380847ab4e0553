package analysis

import (
	"fmt"
	"strings"

	"go-produce-analyzer/internal/locale"
)

// Compose derives the buy/avoid/inspect recommendation from the
// ripeness and disease records. The action is a pure function of
// (stage, is_diseased, severity); rules are evaluated in order and the
// first match wins:
//
//	spoiled                     -> avoid   (spoiled dominates everything)
//	diseased, severity high     -> avoid
//	diseased, severity med/low  -> inspect
//	overripe                    -> inspect
//	ripe                        -> buy
//	underripe                   -> inspect
//	unknown                     -> inspect
func Compose(ripeness RipenessResult, disease DiseaseResult, lang locale.Language) Recommendation {
	severe := disease.Severity != nil && *disease.Severity == SeverityHigh

	switch {
	case ripeness.Stage == StageSpoiled:
		return recommend(ActionAvoid, locale.KeySpoiled, lang, "Produce is spoiled")

	case disease.IsDiseased && severe:
		return recommend(ActionAvoid, locale.KeyDiseaseSevere, lang,
			"Severe disease detected: "+diseaseList(disease))

	case disease.IsDiseased:
		return recommend(ActionInspect, locale.KeyDiseaseMild, lang,
			"Disease detected: "+diseaseList(disease))

	case ripeness.Stage == StageOverripe:
		return recommend(ActionInspect, locale.KeyOverripe, lang, "Overripe but still consumable")

	case ripeness.Stage == StageRipe:
		return recommend(ActionBuy, locale.KeyOptimal, lang, "Perfect ripeness for consumption")

	case ripeness.Stage == StageUnderripe:
		reason := "Not ready to eat yet"
		if ripeness.DaysToOptimal != nil {
			reason = fmt.Sprintf("Wait approximately %d days before eating", *ripeness.DaysToOptimal)
		}
		return recommend(ActionInspect, locale.KeyNotReady, lang, reason)
	}

	return recommend(ActionInspect, locale.KeyUncertain, lang, "Incomplete analysis")
}

// NotProduce is the recommendation used when classification
// short-circuits the pipeline
func NotProduce(lang locale.Language) Recommendation {
	return recommend(ActionAvoid, locale.KeyNotProduce, lang, "Image does not show recognizable produce")
}

// Unavailable is the recommendation used when no analysis could run at
// all, e.g. in offline mode
func Unavailable(lang locale.Language) Recommendation {
	return recommend(ActionInspect, locale.KeyOffline, lang, "Analysis unavailable")
}

func recommend(action Action, key locale.MessageKey, lang locale.Language, reason string) Recommendation {
	return Recommendation{
		Action:  action,
		Message: locale.Localize(key, lang),
		Reason:  reason,
	}
}

func diseaseList(disease DiseaseResult) string {
	if len(disease.DiseasesDetected) == 0 {
		return "unspecified"
	}
	return strings.Join(disease.DiseasesDetected, ", ")
}
