package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otabek-dev/tutor_center/models"
)

type transactionFixture struct {
	svc     *TransactionService
	txns    *fakeTransactionRepo
	lessons *fakeLessonRepo
}

func newTransactionFixture() *transactionFixture {
	txns := newFakeTransactionRepo()
	lessons := newFakeLessonRepo()
	svc := NewTransactionService(txns, lessons).
		WithClock(func() time.Time { return testNow })
	return &transactionFixture{svc: svc, txns: txns, lessons: lessons}
}

func (f *transactionFixture) seedBookedLesson(studentID uuid.UUID, price float64) *models.Lesson {
	lesson := &models.Lesson{
		Name:      "English B2",
		StartTime: testNow.Add(24 * time.Hour),
		EndTime:   testNow.Add(25 * time.Hour),
		Price:     price,
		Status:    models.LessonStatusBooked,
		TeacherID: uuid.New(),
		StudentID: &studentID,
	}
	return f.lessons.put(lesson)
}

func TestCreateTransactionForLesson(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown lesson", func(t *testing.T) {
		f := newTransactionFixture()
		_, err := f.svc.CreateForLesson(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects a lesson booked by someone else", func(t *testing.T) {
		f := newTransactionFixture()
		lesson := f.seedBookedLesson(uuid.New(), 50)

		_, err := f.svc.CreateForLesson(ctx, lesson.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotBookedByStudent)
	})

	t.Run("rejects an unbooked lesson", func(t *testing.T) {
		f := newTransactionFixture()
		lesson := f.lessons.put(&models.Lesson{
			Name:      "Open slot",
			StartTime: testNow.Add(24 * time.Hour),
			EndTime:   testNow.Add(25 * time.Hour),
			Status:    models.LessonStatusAvailable,
			TeacherID: uuid.New(),
		})

		_, err := f.svc.CreateForLesson(ctx, lesson.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotBookedByStudent)
	})

	t.Run("rejects a second transaction for the same lesson", func(t *testing.T) {
		f := newTransactionFixture()
		studentID := uuid.New()
		lesson := f.seedBookedLesson(studentID, 50)

		_, err := f.svc.CreateForLesson(ctx, lesson.ID, studentID)
		require.NoError(t, err)

		_, err = f.svc.CreateForLesson(ctx, lesson.ID, studentID)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("copies the lesson price and back-links the lesson", func(t *testing.T) {
		f := newTransactionFixture()
		studentID := uuid.New()
		lesson := f.seedBookedLesson(studentID, 80)

		txn, err := f.svc.CreateForLesson(ctx, lesson.ID, studentID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPending, txn.Status)
		assert.Equal(t, 80.0, txn.Price)
		assert.Equal(t, lesson.ID, txn.LessonID)
		assert.Equal(t, studentID, txn.StudentID)
		assert.Nil(t, txn.PerformedAt)

		stored := f.lessons.lessons[lesson.ID]
		require.NotNil(t, stored.TransactionID)
		assert.Equal(t, txn.ID, *stored.TransactionID)
	})
}

func TestCompleteTransaction(t *testing.T) {
	ctx := context.Background()

	seedPending := func(f *transactionFixture) (*models.Lesson, *models.Transaction) {
		studentID := uuid.New()
		lesson := f.seedBookedLesson(studentID, 50)
		txn, err := f.svc.CreateForLesson(ctx, lesson.ID, studentID)
		if err != nil {
			panic(err)
		}
		return lesson, txn
	}

	t.Run("rejects unknown transaction", func(t *testing.T) {
		f := newTransactionFixture()
		_, err := f.svc.Complete(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects an already paid transaction", func(t *testing.T) {
		f := newTransactionFixture()
		_, txn := seedPending(f)

		_, err := f.svc.Complete(ctx, txn.ID)
		require.NoError(t, err)

		_, err = f.svc.Complete(ctx, txn.ID)
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("rejects a canceled transaction", func(t *testing.T) {
		f := newTransactionFixture()
		_, txn := seedPending(f)

		_, err := f.svc.Cancel(ctx, txn.ID, "student request")
		require.NoError(t, err)

		_, err = f.svc.Complete(ctx, txn.ID)
		assert.ErrorIs(t, err, ErrAlreadyCanceled)
	})

	t.Run("marks the transaction paid and flags the lesson", func(t *testing.T) {
		f := newTransactionFixture()
		lesson, txn := seedPending(f)

		paid, err := f.svc.Complete(ctx, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPaid, paid.Status)
		require.NotNil(t, paid.PerformedAt)
		assert.True(t, paid.PerformedAt.Equal(testNow))
		assert.True(t, f.lessons.lessons[lesson.ID].IsPaid)
	})

	t.Run("payment survives a failing lesson back-write", func(t *testing.T) {
		f := newTransactionFixture()
		_, txn := seedPending(f)
		f.lessons.saveErr = assert.AnError

		paid, err := f.svc.Complete(ctx, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPaid, paid.Status)

		stored, err := f.txns.FindByID(ctx, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPaid, stored.Status)
	})
}

func TestCancelTransaction(t *testing.T) {
	ctx := context.Background()

	seedPending := func(f *transactionFixture) *models.Transaction {
		studentID := uuid.New()
		lesson := f.seedBookedLesson(studentID, 50)
		txn, err := f.svc.CreateForLesson(ctx, lesson.ID, studentID)
		if err != nil {
			panic(err)
		}
		return txn
	}

	t.Run("rejects unknown transaction", func(t *testing.T) {
		f := newTransactionFixture()
		_, err := f.svc.Cancel(ctx, uuid.New(), "reason")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cancels a pending transaction", func(t *testing.T) {
		f := newTransactionFixture()
		txn := seedPending(f)

		canceled, err := f.svc.Cancel(ctx, txn.ID, "student request")
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPendingCanceled, canceled.Status)
		require.NotNil(t, canceled.CanceledAt)
		assert.True(t, canceled.CanceledAt.Equal(testNow))
		require.NotNil(t, canceled.Reason)
		assert.Equal(t, "student request", *canceled.Reason)
	})

	t.Run("cancels a paid transaction into paid_canceled", func(t *testing.T) {
		f := newTransactionFixture()
		txn := seedPending(f)

		_, err := f.svc.Complete(ctx, txn.ID)
		require.NoError(t, err)

		canceled, err := f.svc.Cancel(ctx, txn.ID, "refund issued")
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPaidCanceled, canceled.Status)
	})

	t.Run("canceled state is terminal", func(t *testing.T) {
		f := newTransactionFixture()
		txn := seedPending(f)

		_, err := f.svc.Cancel(ctx, txn.ID, "first")
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, txn.ID, "second")
		assert.ErrorIs(t, err, ErrAlreadyCanceled)
	})
}

func TestTransactionQueries(t *testing.T) {
	ctx := context.Background()

	f := newTransactionFixture()
	studentID := uuid.New()
	lesson := f.seedBookedLesson(studentID, 50)
	txn, err := f.svc.CreateForLesson(ctx, lesson.ID, studentID)
	require.NoError(t, err)

	t.Run("finds the transaction for a lesson", func(t *testing.T) {
		found, err := f.svc.GetForLesson(ctx, lesson.ID)
		require.NoError(t, err)
		assert.Equal(t, txn.ID, found.ID)
	})

	t.Run("returns not found for a lesson without a transaction", func(t *testing.T) {
		_, err := f.svc.GetForLesson(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("lists a student's transactions", func(t *testing.T) {
		txns, err := f.svc.GetForStudent(ctx, studentID)
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})

	t.Run("filters by status", func(t *testing.T) {
		pending, err := f.svc.GetByStatus(ctx, models.TransactionStatusPending)
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		paid, err := f.svc.GetByStatus(ctx, models.TransactionStatusPaid)
		require.NoError(t, err)
		assert.Empty(t, paid)
	})
}
