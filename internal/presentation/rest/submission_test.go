package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDomainStripsScheme(t *testing.T) {
	require.Equal(t, "www.agency.gov.sg", normalizeDomain("https://www.agency.gov.sg"))
	require.Equal(t, "www.agency.gov.sg", normalizeDomain("http://www.agency.gov.sg"))
}

func TestNormalizeDomainPrefixesThreeLabelDomains(t *testing.T) {
	require.Equal(t, "www.agency.gov.sg", normalizeDomain("agency.gov.sg"))
	require.Equal(t, "www.agency.gov.sg", normalizeDomain("https://agency.gov.sg"))
}

func TestNormalizeDomainLeavesFourLabelDomainsAlone(t *testing.T) {
	require.Equal(t, "sub.agency.gov.sg", normalizeDomain("sub.agency.gov.sg"))
}

func TestNormalizeDomainEmptyStaysEmpty(t *testing.T) {
	require.Equal(t, "", normalizeDomain(""))
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHMACOpenerAcceptsValidSignature(t *testing.T) {
	body := []byte(`{"data":{"submissionId":"sub-1","responses":[{"question":"Repository Name","answer":"agency-site"}]}}`)
	opener := &HMACOpener{secret: []byte("shh")}

	submission, err := opener.Open(sign("shh", body), body)
	require.NoError(t, err)
	require.Equal(t, "sub-1", submission.SubmissionID)
	require.Equal(t, "agency-site", submission.Answer("Repository Name"))
}

func TestHMACOpenerRejectsBadSignature(t *testing.T) {
	body := []byte(`{"data":{"submissionId":"sub-1","responses":[]}}`)
	opener := &HMACOpener{secret: []byte("shh")}

	_, err := opener.Open(sign("wrong", body), body)
	require.Error(t, err)
}

func TestAnswersFiltersEmptyEntries(t *testing.T) {
	s := Submission{Responses: []Field{
		{Question: "GitHub users to be added (Username)", AnswerArray: []string{"alice", "", "bob"}},
	}}
	require.Equal(t, []string{"alice", "bob"}, s.Answers("GitHub users to be added (Username)"))
	require.Nil(t, s.Answers("GitHub users to be removed (Username)"))
}

func TestAnswerMissingQuestionIsEmpty(t *testing.T) {
	s := Submission{Responses: []Field{{Question: "Agency", Answer: "MOE"}}}
	require.Equal(t, "MOE", s.Answer("Agency"))
	require.Equal(t, "", s.Answer("Repository Name"))
}
