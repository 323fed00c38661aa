package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/openeshop/eshop/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err := a.sched.AddFunc("@hourly", a.SchedSweepOrphanOrderItems)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSweepOrphanOrderItems removes order-items whose order write never
// landed. Order creation persists items before the order record, so a failed
// or abandoned final write can leave items behind; anything older than an
// hour with no surviving order is collected here.
func (a *Application) SchedSweepOrphanOrderItems() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	res := a.gormDB.
		Where("created_at < ?", time.Now().Add(-time.Hour)).
		Where("order_id NOT IN (?)", a.gormDB.Model(&domain.Order{}).Select("id")).
		Delete(&domain.OrderItem{})
	if res.Error != nil {
		zap.L().Error("orphan order item sweep failed", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		zap.L().Info("removed orphan order items", zap.Int64("count", res.RowsAffected))
	}
}
