package logging

import "go.uber.org/zap"

// New は環境に応じた zap ロガーを生成します。development 以外では
// 本番向けの JSON ロガーになります。
func New(environment, serviceName string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", serviceName)), nil
}
