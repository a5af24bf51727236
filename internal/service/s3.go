package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Service encapsula o cliente S3 usado para as imagens dos itens.
// O backend nunca recebe os bytes: o cliente faz upload/download direto
// no bucket com URLs pré-assinadas, e o item guarda só a chave do objeto.
type S3Service struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
}

// NewS3Service cria um novo serviço S3
func NewS3Service(s3Client *s3.Client, bucketName string) *S3Service {
	return &S3Service{
		s3Client: s3Client,
		// O PresignClient é o que realmente cria as URLs
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
	}
}

// NewImageKey gera uma chave de objeto única para uma imagem de item.
// Formato: items/DONO/UUID
func (s *S3Service) NewImageKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("items/%s/%s", ownerID.String(), uuid.New().String())
}

// GeneratePresignedPutURL gera uma URL para o cliente fazer upload (PUT)
func (s *S3Service) GeneratePresignedPutURL(ctx context.Context, objectKey string, lifetime time.Duration) (string, error) {
	if objectKey == "" {
		return "", fmt.Errorf("objectKey não pode ser vazio")
	}

	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(lifetime))

	if err != nil {
		log.Printf("Erro ao gerar Presigned PUT URL para %s: %v", objectKey, err)
		return "", fmt.Errorf("falha ao gerar URL de upload")
	}

	return request.URL, nil
}

// GeneratePresignedGetURL gera uma URL para o cliente baixar a imagem (GET)
func (s *S3Service) GeneratePresignedGetURL(ctx context.Context, objectKey string, lifetime time.Duration) (string, error) {
	if objectKey == "" {
		return "", fmt.Errorf("objectKey não pode ser vazio")
	}

	request, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(lifetime))

	if err != nil {
		log.Printf("Erro ao gerar Presigned GET URL para %s: %v", objectKey, err)
		return "", fmt.Errorf("falha ao gerar URL de download")
	}

	return request.URL, nil
}
