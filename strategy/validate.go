package strategy

import "fmt"

const (
	maxSteps      = 20
	maxWaitMillis = 30000
)

// Validate rejects malformed strategies before they reach the executor.
// Planner output is never trusted: a model can emit an unknown step
// kind or a selector-less click just as easily as a valid plan.
func Validate(s Strategy) error {
	if len(s.Views) == 0 {
		return fmt.Errorf("strategy: at least one view required")
	}
	if len(s.Steps) > maxSteps {
		return fmt.Errorf("strategy: %d steps exceeds limit of %d", len(s.Steps), maxSteps)
	}

	for i, st := range s.Steps {
		if err := validateStep(st); err != nil {
			return fmt.Errorf("strategy: step %d: %w", i, err)
		}
	}
	for i, v := range s.Views {
		if err := validateView(v); err != nil {
			return fmt.Errorf("strategy: view %d: %w", i, err)
		}
	}
	return nil
}

func validateStep(st Step) error {
	switch st.Kind {
	case StepClick, StepHover:
		if st.Selector == "" {
			return fmt.Errorf("%s requires a selector", st.Kind)
		}
	case StepInput:
		if st.Selector == "" {
			return fmt.Errorf("input requires a selector")
		}
		if st.Value == "" {
			return fmt.Errorf("input requires a value")
		}
	case StepScroll:
		if st.Pixels == 0 {
			return fmt.Errorf("scroll requires a pixel amount")
		}
	case StepWait:
		if st.DurationMS <= 0 || st.DurationMS > maxWaitMillis {
			return fmt.Errorf("wait duration %dms outside (0, %d]", st.DurationMS, maxWaitMillis)
		}
	default:
		return fmt.Errorf("unknown step kind %q", st.Kind)
	}
	return nil
}

func validateView(v View) error {
	if v.Name == "" {
		return fmt.Errorf("view requires a name")
	}
	switch v.Mode {
	case "css", "xpath":
		if v.Selector == "" {
			return fmt.Errorf("%s view requires a selector", v.Mode)
		}
	case "text":
	default:
		return fmt.Errorf("unknown view mode %q", v.Mode)
	}
	return nil
}
