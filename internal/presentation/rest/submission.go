package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/isomerpages/site-provisioner/pkg/env"
)

const signatureHeader = "X-Isomer-Signature"

// Submission is a decrypted form submission: an opaque correlation id
// plus answers keyed by the exact question text shown on the form.
type Submission struct {
	SubmissionID string  `json:"submissionId"`
	Responses    []Field `json:"responses"`
}

type Field struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	AnswerArray []string `json:"answerArray"`
}

type envelope struct {
	Data Submission `json:"data"`
}

// Answer returns the answer to the given question, or "" when the
// question was not answered.
func (s Submission) Answer(question string) string {
	for _, f := range s.Responses {
		if f.Question == question {
			return f.Answer
		}
	}
	return ""
}

// Answers returns the multi-valued answer to the given question with
// empty entries dropped.
func (s Submission) Answers(question string) []string {
	for _, f := range s.Responses {
		if f.Question != question {
			continue
		}
		var answers []string
		for _, a := range f.AnswerArray {
			if a != "" {
				answers = append(answers, a)
			}
		}
		return answers
	}
	return nil
}

var schemeRe = regexp.MustCompile(`^\w+://`)

// normalizeDomain strips any URL scheme the requester pasted in and
// prepends www. to three-label domains, matching how requesters are
// told to delegate their DNS.
func normalizeDomain(domain string) string {
	domain = schemeRe.ReplaceAllString(domain, "")
	if len(strings.Split(domain, ".")) == 3 {
		domain = "www." + domain
	}
	return domain
}

// SubmissionOpener verifies and decodes an inbound webhook body.
type SubmissionOpener interface {
	Open(signature string, body []byte) (Submission, error)
}

// HMACOpener authenticates webhook bodies with an HMAC-SHA256 digest
// carried in the signature header, hex encoded.
type HMACOpener struct {
	secret []byte
}

func NewHMACOpener() *HMACOpener {
	return &HMACOpener{secret: []byte(env.GetEnv("WEBHOOK_SECRET", ""))}
}

func (o *HMACOpener) Open(signature string, body []byte) (Submission, error) {
	mac := hmac.New(sha256.New, o.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return Submission{}, fmt.Errorf("submission signature mismatch")
	}

	var e envelope
	if err := json.Unmarshal(body, &e); err != nil {
		return Submission{}, fmt.Errorf("decoding submission: %w", err)
	}
	return e.Data, nil
}
