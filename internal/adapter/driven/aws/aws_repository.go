package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
	"github.com/diillson/aws-reservation-audit/internal/domain/repository"
)

// EC2API is the part of the EC2 client used by the audit.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeReservedInstances(ctx context.Context, params *ec2.DescribeReservedInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeReservedInstancesOutput, error)
}

// STSAPI is the part of the STS client used to validate credentials.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ConfigLoader matches config.LoadDefaultConfig.
type ConfigLoader func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)

// AWSRepositoryImpl implementa o EC2Repository com cache de clientes.
type AWSRepositoryImpl struct {
	loadConfig ConfigLoader
	newEC2     func(cfg aws.Config) EC2API
	newSTS     func(cfg aws.Config) STSAPI

	clientCache map[string]*regionConnection
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do EC2Repository.
func NewAWSRepository() repository.EC2Repository {
	return &AWSRepositoryImpl{
		loadConfig: config.LoadDefaultConfig,
		newEC2: func(cfg aws.Config) EC2API {
			return ec2.NewFromConfig(cfg)
		},
		newSTS: func(cfg aws.Config) STSAPI {
			return sts.NewFromConfig(cfg)
		},
		clientCache: make(map[string]*regionConnection),
	}
}

// Connect loads a regional config for account and validates it with
// sts:GetCallerIdentity. The SDK retryer is limited to a single attempt.
func (r *AWSRepositoryImpl) Connect(ctx context.Context, account entity.Account, region string) (repository.RegionConnection, error) {
	cacheKey := fmt.Sprintf("%s-%s", credentialKey(account), region)

	r.mu.Lock()
	if conn, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return conn, nil
	}
	r.mu.Unlock()

	cfg, err := r.loadConfig(ctx, configOptions(account, region)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for account %s in %s: %w", account.Name, region, err)
	}

	identity, err := r.newSTS(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("could not validate credentials for account %s in %s [%s]: %w", account.Name, region, apiErrorCode(err), err)
	}

	conn := &regionConnection{
		region:    region,
		accountID: aws.ToString(identity.Account),
		client:    r.newEC2(cfg),
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = conn
	r.mu.Unlock()

	return conn, nil
}

// credentialKey identifies the credentials an account resolves to. The
// account name is only a label and never part of the key.
func credentialKey(account entity.Account) string {
	switch {
	case account.HasStaticCredentials():
		return "key:" + account.AccessKeyID
	case account.Profile != "":
		return "profile:" + account.Profile
	default:
		return "default"
	}
}

func configOptions(account entity.Account, region string) []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), 1)
		}),
	}
	switch {
	case account.HasStaticCredentials():
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(account.AccessKeyID, account.SecretAccessKey, account.SessionToken),
		))
	case account.Profile != "":
		opts = append(opts, config.WithSharedConfigProfile(account.Profile))
	}
	return opts
}

// regionConnection implements repository.RegionConnection for one region.
type regionConnection struct {
	region    string
	accountID string
	client    EC2API
}

func (c *regionConnection) Region() string {
	return c.region
}

func (c *regionConnection) AccountID() string {
	return c.accountID
}

// ListInstances pages through DescribeInstances filtered by instance state.
// Any page error discards the pages already read.
func (c *regionConnection) ListInstances(ctx context.Context, stateFilter string) ([]entity.Instance, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []ec2Types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{stateFilter}},
		},
	}

	var instances []entity.Instance
	paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances in %s [%s]: %w", c.region, apiErrorCode(err), err)
		}
		for _, reservation := range output.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toInstance(inst))
			}
		}
	}
	return instances, nil
}

// ListReservations returns every Reserved Instance of the region, in any state.
func (c *regionConnection) ListReservations(ctx context.Context) ([]entity.Reservation, error) {
	output, err := c.client.DescribeReservedInstances(ctx, &ec2.DescribeReservedInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("DescribeReservedInstances in %s [%s]: %w", c.region, apiErrorCode(err), err)
	}

	reservations := make([]entity.Reservation, 0, len(output.ReservedInstances))
	for _, ri := range output.ReservedInstances {
		reservations = append(reservations, c.toReservation(ri))
	}
	return reservations, nil
}

func toInstance(inst ec2Types.Instance) entity.Instance {
	instance := entity.Instance{
		ID:           aws.ToString(inst.InstanceId),
		InstanceType: string(inst.InstanceType),
		LaunchTime:   aws.ToTime(inst.LaunchTime),
	}
	if inst.Placement != nil {
		instance.Zone = aws.ToString(inst.Placement.AvailabilityZone)
	}
	if inst.State != nil {
		instance.State = string(inst.State.Name)
	}
	return instance
}

func (c *regionConnection) toReservation(ri ec2Types.ReservedInstances) entity.Reservation {
	zone := aws.ToString(ri.AvailabilityZone)
	if zone == "" {
		// region-scoped reservation
		zone = entity.RegionalZone(c.region)
	}
	return entity.Reservation{
		ID:            aws.ToString(ri.ReservedInstancesId),
		State:         string(ri.State),
		OfferingType:  string(ri.OfferingType),
		Zone:          zone,
		InstanceType:  string(ri.InstanceType),
		InstanceCount: int(aws.ToInt32(ri.InstanceCount)),
	}
}

// apiErrorCode returns the AWS error code carried by err, or "unknown".
func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return "unknown"
}
