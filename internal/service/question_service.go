package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuestionService interface {
	GetQuestion(id uint, withAnswer bool) (*dto.QuestionResponseDTO, error)
	ListQuestions(filter repository.QuestionFilter, withAnswers bool) (*dto.QuestionListDTO, error)
	UpdateQuestion(id uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(id uint) error
	ListTags() ([]model.Tag, error)
}

type questionService struct {
	repo    repository.QuestionRepository
	tagRepo repository.TagRepository
	db      *gorm.DB
}

func NewQuestionService(repo repository.QuestionRepository, tagRepo repository.TagRepository, db *gorm.DB) QuestionService {
	return &questionService{repo: repo, tagRepo: tagRepo, db: db}
}

func (s *questionService) GetQuestion(id uint, withAnswer bool) (*dto.QuestionResponseDTO, error) {
	question, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := toQuestionDTO(question, withAnswer)
	return &resp, nil
}

func (s *questionService) ListQuestions(filter repository.QuestionFilter, withAnswers bool) (*dto.QuestionListDTO, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	questions, total, err := s.repo.FindAll(filter)
	if err != nil {
		log.Error().Err(err).Msg("ListQuestions: repository error")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	return &dto.QuestionListDTO{Items: toQuestionDTOs(questions, withAnswers), Total: total}, nil
}

func (s *questionService) UpdateQuestion(id uint, req dto.QuestionUpdateRequest) (*dto.QuestionResponseDTO, error) {
	var updated *model.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		question, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		if err != nil {
			return err
		}

		if req.Content != nil {
			question.Content = strings.TrimSpace(*req.Content)
		}
		if req.Type != nil {
			question.Type = *req.Type
		}
		if req.Options != nil {
			question.SetOptions(req.Options)
		}
		if req.Answer != nil {
			question.Answer = strings.TrimSpace(*req.Answer)
		}
		if req.Explanation != nil {
			question.Explanation = *req.Explanation
		}
		if req.Passage != nil {
			if strings.TrimSpace(*req.Passage) == "" {
				question.Passage = nil
			} else {
				question.Passage = req.Passage
			}
		}
		if req.Difficulty != nil {
			question.Difficulty = *req.Difficulty
		}
		if question.Type == model.QuestionTypeChoice && len(question.OptionList()) == 0 {
			return fmt.Errorf("%w: a CHOICE question needs options", ErrInvalidInput)
		}

		if err := repo.Update(question); err != nil {
			return err
		}
		if req.Tags != nil {
			tags, err := connectTags(s.tagRepo.WithTx(tx), req.Tags)
			if err != nil {
				return err
			}
			if err := repo.ReplaceTags(question, tags); err != nil {
				return err
			}
			question.Tags = tags
		}
		updated = question
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toQuestionDTO(updated, true)
	return &resp, nil
}

func (s *questionService) DeleteQuestion(id uint) error {
	exists, err := s.repo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrQuestionNotFound
	}
	return s.repo.Delete(id)
}

func (s *questionService) ListTags() ([]model.Tag, error) {
	return s.tagRepo.FindAll()
}

// connectTags resolves tag names, creating the missing ones. Blank and duplicate names are skipped.
func connectTags(repo repository.TagRepository, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tag, err := repo.FirstOrCreate(name, "")
		if err != nil {
			return nil, fmt.Errorf("failed to connect tag %q: %w", name, err)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
