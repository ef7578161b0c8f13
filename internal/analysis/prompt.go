package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/bigredeye/temrin/internal/models"
	"github.com/bigredeye/temrin/internal/stats"
)

const systemInstruction = "Sen profesyonel bir eğitim asistanısın. " +
	"Verileri analiz ederek öğretmene sınıfın durumu hakkında pedagojik içgörüler ve somut öneriler sun."

func BuildPrompt(class *stats.ClassStats, students []models.Student) (string, error) {
	exercises, err := json.Marshal(class.Exercises)
	if err != nil {
		return "", errors.Wrap(err, "Failed to marshal exercise averages")
	}
	averages, err := json.Marshal(stats.StudentAverages(students))
	if err != nil {
		return "", errors.Wrap(err, "Failed to marshal student averages")
	}

	return fmt.Sprintf(`Analyze this student performance data for a teacher in Turkish:
- Class Average: %.1f
- Success Rate: %%%.0f
- Exercises Performance: %s
- Student Avgs: %s`,
		class.ClassAverage,
		class.PassRate,
		exercises,
		averages,
	), nil
}

func fingerprint(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
