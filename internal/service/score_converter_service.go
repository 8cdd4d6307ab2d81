package service

import (
	"fmt"
	"math"
)

const MaxPercentScore float64 = 100.0

type ScoreConverterService interface {
	// ToPercent converts a correct count out of graded questions into a 0-100 score with one decimal.
	ToPercent(correct, graded int) (float64, error)
}

type scoreConverterServiceImpl struct{}

func NewScoreConverterService() ScoreConverterService {
	return &scoreConverterServiceImpl{}
}

func (s *scoreConverterServiceImpl) ToPercent(correct, graded int) (float64, error) {
	if correct < 0 || graded < 0 || correct > graded {
		return 0, fmt.Errorf("correct count %d is out of valid range (0-%d)", correct, graded)
	}
	if graded == 0 {
		return 0, nil
	}
	score := float64(correct) / float64(graded) * MaxPercentScore
	return math.Round(score*10) / 10, nil
}
