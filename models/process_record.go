package models

// Document represents a document attached to a judicial process
type Document struct {
	ID      string     `json:"id" binding:"required"`
	FiledAt *Timestamp `json:"dataHoraJuntada"`
	Name    string     `json:"nome" binding:"required"`
	Text    string     `json:"texto" binding:"required"`
}

// Movement represents a procedural movement (docket entry)
type Movement struct {
	OccurredAt  *Timestamp `json:"dataHora" binding:"required"`
	Description string     `json:"descricao" binding:"required"`
}

// FeeBreakdown represents the attorney fees attached to a process
type FeeBreakdown struct {
	Contractual float64 `json:"contratuais"`
	Expert      float64 `json:"periciais"`
	LoserPays   float64 `json:"sucumbenciais"`
}

// ProcessRecord represents a judicial process submitted for eligibility analysis.
// Boolean flags are pointers so that an explicit false is distinguishable from
// a missing field during binding.
type ProcessRecord struct {
	CaseNumber       string        `json:"numeroProcesso" binding:"required"`
	Class            string        `json:"classe" binding:"required"`
	DecidingBody     string        `json:"orgaoJulgador" binding:"required"`
	LastDistribution *Timestamp    `json:"ultimaDistribuicao"`
	Subject          *string       `json:"assunto"`
	Secrecy          *bool         `json:"segredoJustica" binding:"required"`
	FreeLegalAid     *bool         `json:"justicaGratuita" binding:"required"`
	CourtAcronym     string        `json:"siglaTribunal" binding:"required"`
	Sphere           string        `json:"esfera" binding:"required"`
	ClaimValue       float64       `json:"valorCausa"`
	AwardValue       *float64      `json:"valorCondenacao"`
	Documents        []Document    `json:"documentos" binding:"omitempty,dive"`
	Movements        []Movement    `json:"movimentos" binding:"omitempty,dive"`
	Fees             *FeeBreakdown `json:"honorarios"`
}
