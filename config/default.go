package config

// DefaultValues are the configuration values every other source overrides
const DefaultValues = `
[Log]
Level = "info"
Out = ["stdout"]

[PostgreSQL]
PortWrite = 5432
HostWrite = "localhost"
UserWrite = "rollup"
NameWrite = "rollup"

[EthSender]
AggregateTxPollPeriod = "1s"
PubdataSendingMode = "Calldata"
MaxConsecutivePersistFailures = 10
MaxBatchesPerOperation = 10
ShouldVerifyProofs = true

[EthSender.GasCost]
Commit = 242000
PublishProof = 1000000
Execute = 241000

[Anchor]
Enabled = false
Endpoint = "https://endpoint.4everland.co"
Region = "us-east-1"
BatchSize = 10
Timeout = "30s"

[API]
Address = "localhost:8086"
ReadTimeout = "30s"
WriteTimeout = "30s"
`
