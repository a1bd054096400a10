package service

import (
	"phishing_url_analyzer/internal/domain/adaptors"
	"phishing_url_analyzer/internal/domain/models"
)

type ResultPresenter struct {
	view adaptors.View
}

func NewResultPresenter(view adaptors.View) *ResultPresenter {
	return &ResultPresenter{view: view}
}

func VerdictFor(result *models.AnalysisResult) adaptors.Verdict {
	if result.Prediction.IsSafe() {
		return adaptors.Verdict{Label: `Safe`, Icon: `circle-check`, Tone: `success`, Confidence: result.Confidence}
	}
	return adaptors.Verdict{Label: `Phishing`, Icon: `triangle-exclamation`, Tone: `danger`, Confidence: result.Confidence}
}

func (p *ResultPresenter) Present(result *models.AnalysisResult) {
	p.view.HideError()
	p.view.SetVerdict(VerdictFor(result))
	p.view.ShowResults()
}

type ErrorPresenter struct {
	view adaptors.View
}

func NewErrorPresenter(view adaptors.View) *ErrorPresenter {
	return &ErrorPresenter{view: view}
}

func (p *ErrorPresenter) Present(message string) {
	p.view.HideResults()
	p.view.ShowError(message)
}
