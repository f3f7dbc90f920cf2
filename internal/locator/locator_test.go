package locator_test

import (
	"testing"

	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mailsweep/mailsweep/internal/locator"
	"github.com/mailsweep/mailsweep/pkg/mock"
)

func headerLiteral(subject string) string {
	return "Subject: " + subject + "\r\n" +
		"From: Shop <deals@shop.example>\r\n" +
		"Date: Mon, 02 Jan 2006 15:04:05 -0700\r\n" +
		"\r\n"
}

// expectFetchMessage arranges one Fetch call that streams a single message
// carrying the given raw header bytes, the way the IMAP client does.
func expectFetchMessage(c *mock.MockClient, id uint32, header string) *gomock.Call {
	return c.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ *imap.SeqSet, _ []imap.FetchItem, ch chan *imap.Message) error {
			defer close(ch)
			section := &imap.BodySectionName{
				BodyPartName: imap.BodyPartName{Specifier: imap.HeaderSpecifier},
			}
			ch <- &imap.Message{
				SeqNum: id,
				Body: map[*imap.BodySectionName]imap.Literal{
					section: mock.NewStringLiteral(header),
				},
			}
			return nil
		})
}

func expectFetchFailure(c *mock.MockClient, err error) *gomock.Call {
	return c.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ *imap.SeqSet, _ []imap.FetchItem, ch chan *imap.Message) error {
			close(ch)
			return err
		})
}

func newLocator(t *testing.T, c *mock.MockClient) *locator.Locator {
	t.Helper()
	loc, err := locator.New(
		locator.WithClient(c),
		locator.WithLogger(mock.SetupLogger(t)),
	)
	require.NoError(t, err)
	return loc
}

func TestNewLocatorRequiresDeps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := locator.New(locator.WithLogger(mock.SetupLogger(t)))
	assert.Error(t, err)

	_, err = locator.New(locator.WithClient(mock.NewMockClient(ctrl)))
	assert.Error(t, err)
}

func TestLocateSearchesEachSenderInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockClient(ctrl)
	senders := []string{"a@example.com", "b@example.com", "c@example.com"}

	gomock.InOrder(
		mockClient.EXPECT().Search(mock.NewFromCriteriaMatcher("a@example.com")).Return(nil, nil),
		mockClient.EXPECT().Search(mock.NewFromCriteriaMatcher("b@example.com")).Return(nil, nil),
		mockClient.EXPECT().Search(mock.NewFromCriteriaMatcher("c@example.com")).Return(nil, nil),
	)

	located := newLocator(t, mockClient).Locate(senders)
	assert.Empty(t, located)
}

func TestLocateCollectsMessageMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockClient(ctrl)

	mockClient.EXPECT().
		Search(mock.NewFromCriteriaMatcher("deals@shop.example")).
		Return([]uint32{4, 9}, nil)
	gomock.InOrder(
		expectFetchMessage(mockClient, 4, headerLiteral("First offer")),
		expectFetchMessage(mockClient, 9, headerLiteral("=?utf-8?q?Caf=C3=A9_deals?=")),
	)

	located := newLocator(t, mockClient).Locate([]string{"deals@shop.example"})

	require.Len(t, located, 2)
	assert.Equal(t, uint32(4), located[0].ID)
	assert.Equal(t, "First offer", located[0].Subject)
	assert.Equal(t, "Shop <deals@shop.example>", located[0].From)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 -0700", located[0].Date)
	assert.Equal(t, "deals@shop.example", located[0].Sender)

	assert.Equal(t, uint32(9), located[1].ID)
	assert.Equal(t, "Café deals", located[1].Subject)
}

func TestLocateSkipsSenderWhenSearchFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockClient(ctrl)

	gomock.InOrder(
		mockClient.EXPECT().
			Search(mock.NewFromCriteriaMatcher("broken@example.com")).
			Return(nil, assert.AnError),
		mockClient.EXPECT().
			Search(mock.NewFromCriteriaMatcher("ok@example.com")).
			Return([]uint32{7}, nil),
	)
	expectFetchMessage(mockClient, 7, headerLiteral("Still here"))

	located := newLocator(t, mockClient).Locate([]string{"broken@example.com", "ok@example.com"})

	require.Len(t, located, 1)
	for _, msg := range located {
		assert.NotEqual(t, "broken@example.com", msg.Sender)
	}
	assert.Equal(t, "ok@example.com", located[0].Sender)
}

func TestLocateSkipsMessageWhenFetchFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockClient(ctrl)

	mockClient.EXPECT().
		Search(mock.NewFromCriteriaMatcher("deals@shop.example")).
		Return([]uint32{1, 2, 3}, nil)
	gomock.InOrder(
		expectFetchMessage(mockClient, 1, headerLiteral("Kept")),
		expectFetchFailure(mockClient, assert.AnError),
		expectFetchMessage(mockClient, 3, headerLiteral("Also kept")),
	)

	located := newLocator(t, mockClient).Locate([]string{"deals@shop.example"})

	require.Len(t, located, 2)
	assert.Equal(t, uint32(1), located[0].ID)
	assert.Equal(t, uint32(3), located[1].ID)
}

func TestLocateSubstitutesMissingSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockClient(ctrl)

	mockClient.EXPECT().
		Search(mock.NewFromCriteriaMatcher("deals@shop.example")).
		Return([]uint32{5}, nil)
	expectFetchMessage(mockClient, 5, "From: Shop <deals@shop.example>\r\n\r\n")

	located := newLocator(t, mockClient).Locate([]string{"deals@shop.example"})

	require.Len(t, located, 1)
	assert.Equal(t, "No Subject", located[0].Subject)
}

func TestLocateSanitizesSearchPattern(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockClient(ctrl)

	mockClient.EXPECT().
		Search(mock.NewFromCriteriaMatcher("evil@example.comA001 EXPUNGE")).
		Return(nil, nil)

	located := newLocator(t, mockClient).Locate([]string{"evil@example.com\r\nA001 EXPUNGE"})
	assert.Empty(t, located)
}
