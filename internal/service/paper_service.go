package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PaperService interface {
	CreatePaper(req dto.PaperCreateDTO) (*dto.PaperResponseDTO, error)
	GetAllPapers(subject string) ([]dto.PaperSummaryDTO, error)
	GetPaperDetails(paperID uint, withAnswers bool) (*dto.PaperResponseDTO, error)
	DeletePaper(paperID uint) error
}

type paperService struct {
	paperRepo repository.PaperRepository
}

func NewPaperService(paperRepo repository.PaperRepository) PaperService {
	return &paperService{paperRepo: paperRepo}
}

func (s *paperService) CreatePaper(req dto.PaperCreateDTO) (*dto.PaperResponseDTO, error) {
	paper := model.ExamPaper{}
	copier.Copy(&paper, &req)
	if err := s.paperRepo.Create(&paper); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreatePaper: failed to create paper")
		return nil, fmt.Errorf("failed to create paper: %w", err)
	}
	return toPaperDTO(&paper, false), nil
}

func (s *paperService) GetAllPapers(subject string) ([]dto.PaperSummaryDTO, error) {
	papers, err := s.paperRepo.FindAllWithQuestionCount(subject)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get all papers with question count from repository")
		return nil, fmt.Errorf("error fetching papers: %w", err)
	}

	dtos := make([]dto.PaperSummaryDTO, 0, len(papers))
	for _, p := range papers {
		tags, err := s.paperRepo.TagNames(p.ExamPaper.ID)
		if err != nil {
			log.Warn().Err(err).Uint("paperID", p.ExamPaper.ID).Msg("Failed to load paper tags")
		}
		if tags == nil {
			tags = []string{}
		}
		dtos = append(dtos, dto.PaperSummaryDTO{
			ID:            p.ExamPaper.ID,
			Title:         p.ExamPaper.Title,
			Year:          p.ExamPaper.Year,
			Subject:       p.ExamPaper.Subject,
			PaperType:     p.ExamPaper.PaperType,
			QuestionCount: p.QuestionCount,
			Tags:          tags,
			CreatedAt:     p.ExamPaper.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *paperService) GetPaperDetails(paperID uint, withAnswers bool) (*dto.PaperResponseDTO, error) {
	paper, err := s.paperRepo.FindByIDWithQuestions(paperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaperNotFound
	}
	if err != nil {
		log.Error().Err(err).Uint("paperID", paperID).Msg("Failed to get paper details from repository")
		return nil, fmt.Errorf("error fetching paper %d: %w", paperID, err)
	}
	return toPaperDTO(paper, withAnswers), nil
}

func (s *paperService) DeletePaper(paperID uint) error {
	err := s.paperRepo.Delete(paperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPaperNotFound
	}
	return err
}

func toPaperDTO(paper *model.ExamPaper, withAnswers bool) *dto.PaperResponseDTO {
	return &dto.PaperResponseDTO{
		ID:          paper.ID,
		Title:       paper.Title,
		Year:        paper.Year,
		Subject:     paper.Subject,
		PaperType:   paper.PaperType,
		Description: paper.Description,
		Questions:   toQuestionDTOs(paper.Questions, withAnswers),
		CreatedAt:   paper.CreatedAt,
	}
}
